package model

import "time"

// OTP is a one time code proving control over an email address. It's used
// both for registration and password resets. There may be many per email.
type OTP struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	Email     string `gorm:"index;not null"`
	Code      string `gorm:"not null"`
	CreatedAt time.Time
	ExpiresAt *time.Time `gorm:"index"` // nil never expires
}
