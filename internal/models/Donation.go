package models

import "time"

type Donation struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"userId"`
	User        *User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	NeedID      uint           `gorm:"index;not null" json:"needId"`
	Need        *Need          `json:"need,omitempty"`
	Description string         `gorm:"size:1000" json:"description"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	Condition   string         `gorm:"size:100" json:"condition"`
	ContactInfo string         `gorm:"size:255" json:"contactInfo"`
	Status      DonationStatus `gorm:"size:20;not null;default:Offered" json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
