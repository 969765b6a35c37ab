package models

import "time"

// Post is a short text entry, optionally assigned to a group and
// carrying an image URL. The author is immutable once created.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Image     string    `gorm:"size:512" json:"image"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Group     *Group    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}
