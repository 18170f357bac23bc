// Package model defines database models
package model

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;size:16" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash *string   `json:"-"` // nil for accounts created through OAuth
	Avatar       string    `json:"avatar,omitempty"`
	Role         Role      `gorm:"size:16;not null;default:user" json:"role"`
	IsVerified   bool      `gorm:"not null;default:false" json:"isVerified"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	OAuthID      *string   `gorm:"column:oauth_id;index" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Owner is the public part of a user embedded into media and contact
// responses
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (Owner) TableName() string {
	return "users"
}
