package models

import "time"

type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username    string     `gorm:"size:100" json:"username"`
	Password    string     `gorm:"not null" json:"-"` // bcrypt hash
	Role        Role       `gorm:"size:20;not null;default:User" json:"role"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`

	// Only the SHA-256 of the reset token is persisted.
	ResetTokenHash      string     `gorm:"size:64;index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
}
