package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenlifestyle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleFollow_Flow(t *testing.T) {
	s, db := newTestServer(t)
	follower := mustCreateUser(t, db, "fan", models.RoleUser)
	target := mustCreateUser(t, db, "celebrity", models.RoleUser)

	app := fiber.New()
	app.Use(asUser(follower.ID))
	app.Post("/users/:username/follow", s.ToggleFollow)

	var result struct {
		IsFollowing    bool  `json:"is_following"`
		FollowersCount int64 `json:"followers_count"`
		FollowingCount int64 `json:"following_count"`
	}

	resp := postJSON(t, app, "/users/"+target.Username+"/follow", nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.IsFollowing)
	assert.Equal(t, int64(1), result.FollowersCount)

	// Denormalized stats land on both user rows.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, target.ID).Error)
	assert.Equal(t, 1, reloaded.FollowersCount)
	assert.Equal(t, 1, reloaded.ImpactScore)

	resp = postJSON(t, app, "/users/"+target.Username+"/follow", nil)
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.IsFollowing)
	assert.Equal(t, int64(0), result.FollowersCount)
}

func TestToggleFollow_SelfRejected(t *testing.T) {
	s, db := newTestServer(t)
	narcissist := mustCreateUser(t, db, "mirror", models.RoleUser)

	app := fiber.New()
	app.Use(asUser(narcissist.ID))
	app.Post("/users/:username/follow", s.ToggleFollow)

	resp := postJSON(t, app, "/users/"+narcissist.Username+"/follow", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetFollowers_Listing(t *testing.T) {
	s, db := newTestServer(t)
	a := mustCreateUser(t, db, "alpha", models.RoleUser)
	b := mustCreateUser(t, db, "beta", models.RoleUser)
	target := mustCreateUser(t, db, "popular", models.RoleUser)

	require.NoError(t, db.Create(&models.Follow{FollowerID: a.ID, FollowingID: target.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: b.ID, FollowingID: target.ID}).Error)

	app := fiber.New()
	app.Get("/users/:username/followers", s.GetFollowers)

	req := httptest.NewRequest(http.MethodGet, "/users/"+target.Username+"/followers", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Users []models.User `json:"users"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Users, 2)
}

func TestGetUserProfile_IsFollowingFlag(t *testing.T) {
	s, db := newTestServer(t)
	viewer := mustCreateUser(t, db, "watcher", models.RoleUser)
	target := mustCreateUser(t, db, "watched", models.RoleUser)
	require.NoError(t, db.Create(&models.Follow{FollowerID: viewer.ID, FollowingID: target.ID}).Error)

	app := fiber.New()
	app.Use(asUser(viewer.ID))
	app.Get("/users/:username/profile", s.GetUserProfile)

	req := httptest.NewRequest(http.MethodGet, "/users/"+target.Username+"/profile", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		User        models.User `json:"user"`
		IsFollowing bool        `json:"is_following"`
		IsSelf      bool        `json:"is_self"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, target.Username, profile.User.Username)
	assert.True(t, profile.IsFollowing)
	assert.False(t, profile.IsSelf)
}

func TestGetUserProfile_DeactivatedHidden(t *testing.T) {
	s, db := newTestServer(t)
	ghost := mustCreateUser(t, db, "ghost", models.RoleUser)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", ghost.ID).Update("is_active", false).Error)

	app := fiber.New()
	app.Get("/users/:username/profile", s.GetUserProfile)

	req := httptest.NewRequest(http.MethodGet, "/users/ghost/profile", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
