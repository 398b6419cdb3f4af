// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role defines the permission tier of a user account.
type Role string

const (
	// RoleUser is a regular account.
	RoleUser Role = "user"
	// RoleModerator can approve categories.
	RoleModerator Role = "moderator"
	// RoleAdmin has full access to the administration surface.
	RoleAdmin Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the Green Lifestyle application.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:30;unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Profile fields
	Bio          string `gorm:"size:500" json:"bio"`
	Gender       string `gorm:"size:30" json:"gender"`
	Education    string `gorm:"size:500" json:"education"`
	Location     string `gorm:"size:100" json:"location"`
	Website      string `json:"website"`
	EcoInterests string `gorm:"size:500" json:"eco_interests"`
	AvatarURL    string `json:"avatar_url"`

	Role       Role `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`
	IsActive   bool `gorm:"default:true" json:"is_active"`

	// Denormalized stats, refreshed best-effort after writes that affect them.
	TipsCount      int `json:"tips_count"`
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
	ImpactScore    int `json:"impact_score"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Tips []Tip `gorm:"foreignKey:AuthorID" json:"tips,omitempty"`
}

// IsModerator reports whether the user can moderate categories.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// IsAdmin reports whether the user has administrator privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ComputeImpactScore derives the engagement metric from published tips and followers.
func ComputeImpactScore(publishedTips, followers int) int {
	return 2*publishedTips + followers
}
