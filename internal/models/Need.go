package models

import "time"

type Need struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LocationID  uint      `gorm:"index;not null" json:"locationId"`
	Location    *Location `json:"location,omitempty"`
	Category    string    `gorm:"size:100" json:"category"`
	Description string    `gorm:"size:1000" json:"description"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Donations []Donation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"donations,omitempty"`
}
