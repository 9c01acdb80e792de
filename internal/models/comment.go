package models

import "time"

// Comment is a reply on a post. Comments are write-once: they are never
// edited or deleted individually, only removed with their parent post.
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	AuthorID  uint   `gorm:"not null"`
	Author    User   `gorm:"foreignKey:AuthorID"`
	PostID    uint   `gorm:"not null;index"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt time.Time
}
