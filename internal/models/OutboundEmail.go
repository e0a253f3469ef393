package models

import "time"

type EmailKind string

const (
	EmailPasswordReset  EmailKind = "password_reset"
	EmailDonationStatus EmailKind = "donation_status"
)

type EmailStatus string

const (
	EmailPending EmailStatus = "pending"
	EmailSent    EmailStatus = "sent"
	EmailFailed  EmailStatus = "failed"
)

// OutboundEmail is a queued notification. Rows are written in the same
// transaction as the change they report and delivered afterwards.
type OutboundEmail struct {
	ID            uint        `gorm:"primaryKey"`
	Recipient     string      `gorm:"size:255;not null"`
	Subject       string      `gorm:"size:255;not null"`
	Body          string      `gorm:"type:text;not null"`
	Kind          EmailKind   `gorm:"size:32;not null"`
	Status        EmailStatus `gorm:"size:16;not null;default:pending;index:idx_outbound_due,priority:1"`
	Attempts      int         `gorm:"not null;default:0"`
	LastError     string      `gorm:"type:text"`
	NextAttemptAt time.Time   `gorm:"index:idx_outbound_due,priority:2"`
	SentAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
