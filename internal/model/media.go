package model

import (
	"strings"
	"time"
)

type Media struct {
	ID          string      `gorm:"primaryKey;size:16" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	TitleSearch string      `gorm:"not null;default:''" json:"-"` // SearchKey(Title)
	Description string      `json:"description,omitempty"`
	Tags        StringSlice `json:"tags"`
	ImageURL    string      `gorm:"not null" json:"imageUrl"`
	StorageKey  string      `gorm:"not null" json:"-"` // Needed to release the object from the store
	ContentType string      `json:"contentType"`
	Size        int64       `json:"size"`
	UserID      string      `gorm:"index;not null" json:"-"`
	User        *Owner      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	IsShared    bool        `gorm:"not null;default:false" json:"isShared"`
	CreatedAt   time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (Media) TableName() string {
	return "media"
}

// SearchKey is the form titles are matched in. Lowercasing happens here
// because sqlite's LOWER only folds ASCII.
func SearchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
