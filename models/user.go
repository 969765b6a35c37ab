package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an author. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"size:255" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	Bio          string         `gorm:"size:255" json:"bio"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Posts        []Post         `json:"-"`
	Comments     []Comment      `json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}
