package repository

import (
	"context"
	"errors"
	"time"

	"greenlifestyle/internal/models"
	"greenlifestyle/internal/observability"

	"gorm.io/gorm"
)

// ActivityTotals aggregates a subject's lifetime usage.
type ActivityTotals struct {
	DaysActive int64 `json:"days_active"`
	Visits     int64 `json:"total_visits"`
	PageViews  int64 `json:"total_page_views"`
}

// ActivityRepository defines the interface for daily activity tracking
type ActivityRepository interface {
	Track(ctx context.Context, subjectKey string, userID *uint, at time.Time, tipViewed uint) error
	ListRecent(ctx context.Context, subjectKey string, days int) ([]*models.UserActivity, error)
	Dates(ctx context.Context, subjectKey string) ([]time.Time, error)
	Totals(ctx context.Context, subjectKey string) (*ActivityTotals, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Track upserts the subject's row for the calendar day of at. Visits and page
// views increment on every call; tipViewed, when non-zero, is appended to the
// day's viewed list at most once.
func (r *activityRepository) Track(ctx context.Context, subjectKey string, userID *uint, at time.Time, tipViewed uint) error {
	date := models.ActivityDate(at)

	var activity models.UserActivity
	err := r.db.WithContext(ctx).
		Where("subject_key = ? AND date = ?", subjectKey, date).
		First(&activity).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		activity = models.UserActivity{
			SubjectKey:   subjectKey,
			UserID:       userID,
			Date:         date,
			VisitsCount:  1,
			PageViews:    1,
			LastActivity: at,
		}
		if tipViewed != 0 {
			activity.TipsViewed = models.TipIDList{tipViewed}
		}
		if createErr := r.db.WithContext(ctx).Create(&activity).Error; createErr != nil {
			// A concurrent request may have created the row between our
			// lookup and insert. Fall through to the update path.
			err = r.db.WithContext(ctx).
				Where("subject_key = ? AND date = ?", subjectKey, date).
				First(&activity).Error
			if err != nil {
				return createErr
			}
		} else {
			observability.ActivityRowsTouched.WithLabelValues("create").Inc()
			return nil
		}
	} else if err != nil {
		return err
	}

	activity.VisitsCount++
	activity.PageViews++
	activity.LastActivity = at
	if tipViewed != 0 && !activity.TipsViewed.Contains(tipViewed) {
		activity.TipsViewed = append(activity.TipsViewed, tipViewed)
	}
	if err := r.db.WithContext(ctx).Save(&activity).Error; err != nil {
		return err
	}
	observability.ActivityRowsTouched.WithLabelValues("update").Inc()
	return nil
}

func (r *activityRepository) ListRecent(ctx context.Context, subjectKey string, days int) ([]*models.UserActivity, error) {
	since := models.ActivityDate(time.Now().UTC().AddDate(0, 0, -days))
	var activities []*models.UserActivity
	err := r.db.WithContext(ctx).
		Where("subject_key = ? AND date >= ?", subjectKey, since).
		Order("date DESC").
		Find(&activities).Error
	return activities, err
}

// Dates returns the subject's active days newest first, for streak walking.
func (r *activityRepository) Dates(ctx context.Context, subjectKey string) ([]time.Time, error) {
	var activities []*models.UserActivity
	err := r.db.WithContext(ctx).
		Select("date").
		Where("subject_key = ?", subjectKey).
		Order("date DESC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(activities))
	for _, a := range activities {
		dates = append(dates, models.ActivityDate(a.Date))
	}
	return dates, nil
}

func (r *activityRepository) Totals(ctx context.Context, subjectKey string) (*ActivityTotals, error) {
	var totals ActivityTotals
	err := r.db.WithContext(ctx).
		Model(&models.UserActivity{}).
		Select("COUNT(*) as days_active, COALESCE(SUM(visits_count), 0) as visits, COALESCE(SUM(page_views), 0) as page_views").
		Where("subject_key = ?", subjectKey).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *activityRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.UserActivity{}).
		Where("date >= ?", models.ActivityDate(since)).
		Distinct("subject_key").
		Count(&n).Error
	return n, err
}
