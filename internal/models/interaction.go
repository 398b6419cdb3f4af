package models

import "time"

// Like records that a user liked a tip.
// The combination of UserID and TipID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_tip" json:"user_id"`
	TipID     uint      `gorm:"not null;uniqueIndex:idx_like_user_tip" json:"tip_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Tip  Tip  `gorm:"foreignKey:TipID;constraint:OnDelete:CASCADE" json:"tip,omitempty"`
}

// Bookmark records that a user saved a tip for later.
// The combination of UserID and TipID must be unique.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_tip" json:"user_id"`
	TipID     uint      `gorm:"not null;uniqueIndex:idx_bookmark_user_tip" json:"tip_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Tip  Tip  `gorm:"foreignKey:TipID;constraint:OnDelete:CASCADE" json:"tip,omitempty"`
}
