package models

import "time"

// Category is a named, moderated topic grouping tips.
//
// Categories proposed by regular users start unapproved and stay invisible to
// the public surface until a moderator or admin approves them. Approval is
// one-way.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;unique;not null" json:"name"`
	Slug        string `gorm:"size:100;unique;not null" json:"slug"`
	Description string `gorm:"size:500" json:"description"`
	Icon        string `gorm:"size:10;default:'🌱'" json:"icon"`

	CreatedByID *uint `json:"created_by_id,omitempty"`
	CreatedBy   *User `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`

	IsApproved   bool       `gorm:"default:false;index" json:"is_approved"`
	ApprovedByID *uint      `json:"approved_by_id,omitempty"`
	ApprovedBy   *User      `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`

	// TipsCount is not persisted; computed at query time for listings.
	TipsCount int `gorm:"->" json:"tips_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "categories"
}
