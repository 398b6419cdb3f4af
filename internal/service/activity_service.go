package service

import (
	"context"
	"sort"
	"time"

	"greenlifestyle/internal/models"
	"greenlifestyle/internal/repository"
)

type ActivityService struct {
	activityRepo repository.ActivityRepository
}

// ActivityHistory is the payload for the activity endpoint: the recent daily
// rows plus derived numbers.
type ActivityHistory struct {
	Days    []*models.UserActivity     `json:"days"`
	Today   *models.UserActivity       `json:"today"`
	Streak  int                        `json:"streak"`
	Totals  *repository.ActivityTotals `json:"totals"`
	TopTips []TipViewCount             `json:"top_tips"`
}

// TipViewCount pairs a tip with the number of days the subject opened it.
// Views are de-duplicated per day, so days is the natural unit here.
type TipViewCount struct {
	TipID uint `json:"tip_id"`
	Days  int  `json:"days"`
}

func NewActivityService(activityRepo repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// TrackUser records a visit for a signed-in user.
func (s *ActivityService) TrackUser(ctx context.Context, userID uint, at time.Time, tipViewed uint) error {
	return s.activityRepo.Track(ctx, models.UserSubjectKey(userID), &userID, at, tipViewed)
}

// TrackAnonymous records a visit keyed by the browser session ID.
func (s *ActivityService) TrackAnonymous(ctx context.Context, sessionID string, at time.Time, tipViewed uint) error {
	if sessionID == "" {
		return nil
	}
	return s.activityRepo.Track(ctx, models.AnonSubjectKey(sessionID), nil, at, tipViewed)
}

func (s *ActivityService) History(ctx context.Context, userID uint, days int) (*ActivityHistory, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	key := models.UserSubjectKey(userID)

	recent, err := s.activityRepo.ListRecent(ctx, key, days)
	if err != nil {
		return nil, err
	}
	dates, err := s.activityRepo.Dates(ctx, key)
	if err != nil {
		return nil, err
	}
	totals, err := s.activityRepo.Totals(ctx, key)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var today *models.UserActivity
	for _, day := range recent {
		if day.Date.UTC().Equal(models.ActivityDate(now)) {
			today = day
			break
		}
	}

	return &ActivityHistory{
		Days:    recent,
		Today:   today,
		Streak:  StreakAt(dates, now),
		Totals:  totals,
		TopTips: topViewedTips(recent, 5),
	}, nil
}

// topViewedTips ranks tips by how many of the recent days they were opened,
// ties broken by lower id.
func topViewedTips(days []*models.UserActivity, n int) []TipViewCount {
	counts := make(map[uint]int)
	for _, day := range days {
		for _, id := range day.TipsViewed {
			counts[id]++
		}
	}
	ranked := make([]TipViewCount, 0, len(counts))
	for id, c := range counts {
		ranked = append(ranked, TipViewCount{TipID: id, Days: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Days != ranked[j].Days {
			return ranked[i].Days > ranked[j].Days
		}
		return ranked[i].TipID < ranked[j].TipID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func (s *ActivityService) Streak(ctx context.Context, userID uint) (int, error) {
	dates, err := s.activityRepo.Dates(ctx, models.UserSubjectKey(userID))
	if err != nil {
		return 0, err
	}
	return StreakAt(dates, time.Now().UTC()), nil
}

// StreakAt counts consecutive active days ending today or yesterday. Dates
// must be normalized to UTC midnight and sorted newest first. A streak that
// did not reach yesterday is over, so it reads as zero.
func StreakAt(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	today := models.ActivityDate(now)
	yesterday := today.AddDate(0, 0, -1)

	if dates[0].Before(yesterday) {
		return 0
	}

	streak := 1
	expected := dates[0].AddDate(0, 0, -1)
	for _, d := range dates[1:] {
		if d.Equal(expected) {
			streak++
			expected = expected.AddDate(0, 0, -1)
			continue
		}
		if d.Before(expected) {
			break
		}
	}
	return streak
}
