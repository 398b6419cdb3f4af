package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TipIDList is a JSON-encoded list of tip IDs stored in a text column.
type TipIDList []uint

// Value implements driver.Valuer.
func (l TipIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *TipIDList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for TipIDList", value)
	}
}

// Contains reports whether id is already in the list.
func (l TipIDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// UserActivity is a per-day visit and view counter for a user or anonymous
// session. One row exists per (subject, calendar day); counters are
// incremented in place. Streaks and "most viewed" stats are derived from
// these rows.
type UserActivity struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// SubjectKey identifies who the row belongs to: "user:<id>" for
	// authenticated traffic, "anon:<uuid>" for session-cookie visitors.
	SubjectKey string `gorm:"size:64;not null;uniqueIndex:idx_activity_subject_date" json:"-"`
	UserID     *uint  `gorm:"index" json:"user_id,omitempty"`

	// Date is the calendar day in UTC, truncated to midnight.
	Date time.Time `gorm:"not null;uniqueIndex:idx_activity_subject_date" json:"date"`

	VisitsCount  int       `gorm:"default:0" json:"visits_count"`
	PageViews    int       `gorm:"default:0" json:"page_views"`
	TipsViewed   TipIDList `gorm:"type:text" json:"tips_viewed"`
	LastActivity time.Time `json:"last_activity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (UserActivity) TableName() string {
	return "user_activities"
}

// UserSubjectKey builds the activity subject key for an authenticated user.
func UserSubjectKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// AnonSubjectKey builds the activity subject key for an anonymous session.
func AnonSubjectKey(sessionID string) string {
	return "anon:" + sessionID
}

// ActivityDate truncates t to its UTC calendar day.
func ActivityDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
