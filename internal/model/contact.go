package model

import "time"

type Contact struct {
	ID        string    `gorm:"primaryKey;size:16" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Message   string    `gorm:"not null" json:"message"`
	UserID    *string   `gorm:"index" json:"-"` // nil for anonymous submissions
	User      *Owner    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
