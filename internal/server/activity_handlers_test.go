package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"greenlifestyle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackActivity_SignedInVisit(t *testing.T) {
	s, db := newTestServer(t)
	user := mustCreateUser(t, db, "visitor", models.RoleUser)

	app := fiber.New()
	app.Use(asUser(user.ID))
	app.Use(s.TrackActivity())
	app.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	var row models.UserActivity
	require.NoError(t, db.Where("subject_key = ?", models.UserSubjectKey(user.ID)).First(&row).Error)
	assert.Equal(t, 3, row.VisitsCount)
	assert.True(t, row.Date.UTC().Equal(models.ActivityDate(time.Now())))
}

func TestTrackActivity_AnonymousGetsSessionCookie(t *testing.T) {
	s, db := newTestServer(t)

	app := fiber.New()
	app.Use(s.TrackActivity())
	app.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	setCookie := resp.Header.Get("Set-Cookie")
	require.Contains(t, setCookie, sessionCookieName+"=")

	// Extract the session value and replay it; both hits land on one row.
	value := strings.SplitN(strings.TrimPrefix(setCookie, sessionCookieName+"="), ";", 2)[0]
	require.NotEmpty(t, value)

	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: value})
	resp2, err := app.Test(req)
	require.NoError(t, err)
	_ = resp2.Body.Close()

	var rows []models.UserActivity
	require.NoError(t, db.Where("subject_key = ?", models.AnonSubjectKey(value)).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].VisitsCount)
	assert.Nil(t, rows[0].UserID)
}

func TestTrackActivity_SkipsNonAPIPaths(t *testing.T) {
	s, db := newTestServer(t)

	app := fiber.New()
	app.Use(s.TrackActivity())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var count int64
	db.Model(&models.UserActivity{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
}

func TestGetTip_CountsAsTipView(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "viewedauthor", models.RoleUser)
	reader := mustCreateUser(t, db, "avidreader", models.RoleUser)

	authorApp := fiber.New()
	authorApp.Use(asUser(author.ID))
	authorApp.Post("/tips", s.CreateTip)
	resp := postJSON(t, authorApp, "/tips", map[string]interface{}{
		"title":   "Grow Herbs on a Windowsill",
		"content": "Basil and chives thrive in a sunny kitchen window.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tip := decodeTip(t, resp)

	readerApp := fiber.New()
	readerApp.Use(asUser(reader.ID))
	readerApp.Use(s.TrackActivity())
	readerApp.Get("/api/tips/:slug", s.GetTip)

	req := httptest.NewRequest(http.MethodGet, "/api/tips/"+tip.Slug, nil)
	getResp, err := readerApp.Test(req)
	require.NoError(t, err)
	_ = getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var row models.UserActivity
	require.NoError(t, db.Where("subject_key = ?", models.UserSubjectKey(reader.ID)).First(&row).Error)
	assert.True(t, row.TipsViewed.Contains(tip.ID))
}

func TestGetMyStreak(t *testing.T) {
	s, db := newTestServer(t)
	user := mustCreateUser(t, db, "streaker", models.RoleUser)

	for day := 0; day < 3; day++ {
		at := time.Now().AddDate(0, 0, -day)
		row := &models.UserActivity{
			SubjectKey:   models.UserSubjectKey(user.ID),
			UserID:       &user.ID,
			Date:         models.ActivityDate(at),
			VisitsCount:  1,
			LastActivity: at,
		}
		if day < 2 {
			row.TipsViewed = models.TipIDList{42}
		}
		require.NoError(t, db.Create(row).Error)
	}

	app := fiber.New()
	app.Use(asUser(user.ID))
	app.Get("/me/streak", s.GetMyStreak)
	app.Get("/me/activity", s.GetMyActivity)

	req := httptest.NewRequest(http.MethodGet, "/me/streak", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var streak struct {
		Streak int `json:"streak"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&streak))
	assert.Equal(t, 3, streak.Streak)

	req = httptest.NewRequest(http.MethodGet, "/me/activity?days=7", nil)
	actResp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = actResp.Body.Close() }()

	var history struct {
		Days   []models.UserActivity `json:"days"`
		Today  *models.UserActivity  `json:"today"`
		Streak int                   `json:"streak"`
		Totals struct {
			DaysActive int64 `json:"days_active"`
			Visits     int64 `json:"total_visits"`
			PageViews  int64 `json:"total_page_views"`
		} `json:"totals"`
		TopTips []struct {
			TipID uint `json:"tip_id"`
			Days  int  `json:"days"`
		} `json:"top_tips"`
	}
	require.NoError(t, json.NewDecoder(actResp.Body).Decode(&history))
	assert.Len(t, history.Days, 3)
	assert.Equal(t, 3, history.Streak)
	assert.Equal(t, int64(3), history.Totals.DaysActive)

	require.NotNil(t, history.Today)
	assert.Equal(t, 1, history.Today.VisitsCount)
	require.Len(t, history.TopTips, 1)
	assert.Equal(t, uint(42), history.TopTips[0].TipID)
	assert.Equal(t, 2, history.TopTips[0].Days)
}
