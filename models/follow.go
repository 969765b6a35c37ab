package models

import "time"

// Follow is a directed edge meaning the user sees the author's posts
// in their follow feed. A given (user, author) pair exists at most once.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;" json:"-"`
}
