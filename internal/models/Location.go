package models

import "time"

// Location is a point on the map describing a place with needs.
type Location struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Latitude    float64   `gorm:"not null" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:1000" json:"description"`
	Category    string    `gorm:"size:100;index" json:"category"`
	ImageURLs   []string  `gorm:"column:image_urls;type:text;serializer:json" json:"imageUrls"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	User        *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Needs    []Need             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"needs,omitempty"`
	Feedback []LocationFeedback `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"feedback,omitempty"`
}
