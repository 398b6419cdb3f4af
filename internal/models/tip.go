package models

import (
	"time"

	"gorm.io/gorm"
)

// Tip represents a user-authored advice post.
type Tip struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Slug     string `gorm:"size:220;not null;uniqueIndex" json:"slug"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url"`

	AuthorID uint `gorm:"not null;index" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`

	// CategoryID is nullable so tips survive category deletion.
	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`

	IsPublished bool `gorm:"default:true;index" json:"is_published"`

	// LikesCount is not persisted; computed at query time.
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time.
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the requesting user liked this tip (computed).
	Liked bool `gorm:"->" json:"liked"`
	// Bookmarked indicates whether the requesting user saved this tip (computed).
	Bookmarked bool `gorm:"->" json:"bookmarked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Tip) TableName() string {
	return "tips"
}
