package models

import "time"

// Post is a published article. Date is a display string stamped once at
// creation ("January 02, 2006") and never changed by later edits.
type Post struct {
	ID        uint   `gorm:"primaryKey"`
	AuthorID  uint   `gorm:"not null"`
	Author    User   `gorm:"foreignKey:AuthorID"`
	Title     string `gorm:"size:250;unique;not null"`
	Subtitle  string `gorm:"size:250;not null"`
	Date      string `gorm:"size:250;not null"`
	Body      string `gorm:"type:text;not null"`
	ImgURL    string `gorm:"size:250;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the historical table name used by existing deployments.
func (Post) TableName() string { return "blog_posts" }
