package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a user's remark on a tip. Only the author may delete it.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`

	TipID    uint `gorm:"not null;index" json:"tip_id"`
	Tip      Tip  `gorm:"foreignKey:TipID;constraint:OnDelete:CASCADE" json:"tip,omitempty"`
	AuthorID uint `gorm:"not null;index" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
