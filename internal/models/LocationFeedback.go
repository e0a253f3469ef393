package models

import "time"

type LocationFeedback struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LocationID uint      `gorm:"index;not null" json:"locationId"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	User       *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Comment    string    `gorm:"size:1000" json:"comment"`
	Rating     int       `gorm:"not null" json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
}
