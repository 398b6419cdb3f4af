package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenlifestyle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeTip(t *testing.T, resp *http.Response) models.Tip {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var tip models.Tip
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tip))
	return tip
}

func TestCreateTip_SlugDeduplication(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "author", models.RoleUser)

	app := fiber.New()
	app.Use(asUser(author.ID))
	app.Post("/tips", s.CreateTip)

	payload := map[string]interface{}{
		"title":   "Five Ways to Save Energy",
		"content": "Turn off standby power, wash at lower temperatures, and seal your windows.",
	}

	resp := postJSON(t, app, "/tips", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decodeTip(t, resp)
	assert.Equal(t, "five-ways-to-save-energy", first.Slug)

	resp = postJSON(t, app, "/tips", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	second := decodeTip(t, resp)
	assert.Equal(t, "five-ways-to-save-energy-1", second.Slug)
}

func TestGetTip_DraftVisibility(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "drafter", models.RoleUser)
	stranger := mustCreateUser(t, db, "stranger", models.RoleUser)

	authorApp := fiber.New()
	authorApp.Use(asUser(author.ID))
	authorApp.Post("/tips", s.CreateTip)
	authorApp.Get("/tips/:slug", s.GetTip)

	resp := postJSON(t, authorApp, "/tips", map[string]interface{}{
		"title":   "Secret Compost Recipe",
		"content": "Layer greens and browns, keep it damp, turn it weekly.",
		"draft":   true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	draft := decodeTip(t, resp)
	require.False(t, draft.IsPublished)

	// The author still sees their own draft.
	req := httptest.NewRequest(http.MethodGet, "/tips/"+draft.Slug, nil)
	authorResp, err := authorApp.Test(req)
	require.NoError(t, err)
	defer func() { _ = authorResp.Body.Close() }()
	assert.Equal(t, http.StatusOK, authorResp.StatusCode)

	// Everyone else gets a 404, not a 403; drafts must not leak existence.
	strangerApp := fiber.New()
	strangerApp.Use(asUser(stranger.ID))
	strangerApp.Get("/tips/:slug", s.GetTip)

	req = httptest.NewRequest(http.MethodGet, "/tips/"+draft.Slug, nil)
	strangerResp, err := strangerApp.Test(req)
	require.NoError(t, err)
	defer func() { _ = strangerResp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, strangerResp.StatusCode)

	// Anonymous readers too.
	anonApp := fiber.New()
	anonApp.Get("/tips/:slug", s.GetTip)
	req = httptest.NewRequest(http.MethodGet, "/tips/"+draft.Slug, nil)
	anonResp, err := anonApp.Test(req)
	require.NoError(t, err)
	defer func() { _ = anonResp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, anonResp.StatusCode)
}

func TestGetTips_ListsPublishedOnly(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "lister", models.RoleUser)

	app := fiber.New()
	app.Use(asUser(author.ID))
	app.Post("/tips", s.CreateTip)
	app.Get("/tips", s.GetTips)
	app.Get("/me/tips", s.GetMyTips)

	resp := postJSON(t, app, "/tips", map[string]interface{}{
		"title":   "Public Rain Barrel Guide",
		"content": "Catch roof runoff in a food-grade barrel with a mesh lid.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = postJSON(t, app, "/tips", map[string]interface{}{
		"title":   "Unfinished Draft",
		"content": "Notes to self about insulation, not ready yet.",
		"draft":   true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	var listBody struct {
		Tips  []models.Tip `json:"tips"`
		Total int64        `json:"total"`
	}

	req := httptest.NewRequest(http.MethodGet, "/tips", nil)
	listResp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = listResp.Body.Close() }()
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listBody))
	assert.Equal(t, int64(1), listBody.Total)
	require.Len(t, listBody.Tips, 1)
	assert.Equal(t, "public-rain-barrel-guide", listBody.Tips[0].Slug)

	// The author's own listing includes the draft.
	req = httptest.NewRequest(http.MethodGet, "/me/tips", nil)
	mineResp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = mineResp.Body.Close() }()
	require.NoError(t, json.NewDecoder(mineResp.Body).Decode(&listBody))
	assert.Equal(t, int64(2), listBody.Total)
}

func TestUpdateTip_ForbiddenForStranger(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "owner", models.RoleUser)
	stranger := mustCreateUser(t, db, "intruder", models.RoleUser)

	authorApp := fiber.New()
	authorApp.Use(asUser(author.ID))
	authorApp.Post("/tips", s.CreateTip)

	resp := postJSON(t, authorApp, "/tips", map[string]interface{}{
		"title":   "Bike to Work Basics",
		"content": "Plan a quiet route, fit mudguards, pack a light lock.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tip := decodeTip(t, resp)

	reject := func(t *testing.T, userID uint) {
		t.Helper()
		app := fiber.New()
		app.Use(asUser(userID))
		app.Put("/tips/:id", s.UpdateTip)

		body, _ := json.Marshal(map[string]interface{}{"title": "Hijacked"})
		req := httptest.NewRequest(http.MethodPut, "/tips/1", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		putResp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = putResp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, putResp.StatusCode)
	}

	reject(t, stranger.ID)

	// Editing is author-only; moderators get no special treatment either.
	moderator := mustCreateUser(t, db, "overseer", models.RoleModerator)
	reject(t, moderator.ID)

	// Title unchanged.
	var reloaded models.Tip
	require.NoError(t, db.First(&reloaded, tip.ID).Error)
	assert.Equal(t, "Bike to Work Basics", reloaded.Title)
}

func TestUpdateTip_SlugStableAcrossTitleEdit(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "editor", models.RoleUser)

	app := fiber.New()
	app.Use(asUser(author.ID))
	app.Post("/tips", s.CreateTip)
	app.Put("/tips/:id", s.UpdateTip)

	resp := postJSON(t, app, "/tips", map[string]interface{}{
		"title":   "Original Title Here",
		"content": "Links to this tip must not break when the title changes.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tip := decodeTip(t, resp)

	body, _ := json.Marshal(map[string]interface{}{"title": "Completely New Title"})
	req := httptest.NewRequest(http.MethodPut, "/tips/1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	putResp, err := app.Test(req)
	require.NoError(t, err)
	updated := decodeTip(t, putResp)

	assert.Equal(t, "Completely New Title", updated.Title)
	assert.Equal(t, tip.Slug, updated.Slug)
}

func TestDeleteTip_AuthorOnlyOnPublicRoute(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "victim", models.RoleUser)
	moderator := mustCreateUser(t, db, "sheriff", models.RoleModerator)
	admin := mustCreateUser(t, db, "chief", models.RoleAdmin)

	authorApp := fiber.New()
	authorApp.Use(asUser(author.ID))
	authorApp.Post("/tips", s.CreateTip)

	resp := postJSON(t, authorApp, "/tips", map[string]interface{}{
		"title":   "Borderline Advice",
		"content": "Something the staff might decide to take down later.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tip := decodeTip(t, resp)

	// Even a moderator cannot remove someone else's tip through the
	// public route.
	modApp := fiber.New()
	modApp.Use(asUser(moderator.ID))
	modApp.Delete("/tips/:id", s.DeleteTip)

	req := httptest.NewRequest(http.MethodDelete, "/tips/1", nil)
	delResp, err := modApp.Test(req)
	require.NoError(t, err)
	defer func() { _ = delResp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, delResp.StatusCode)

	var count int64
	db.Model(&models.Tip{}).Where("id = ?", tip.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// The administration surface is the one place that may.
	adminApp := fiber.New()
	adminApp.Use(asUser(admin.ID))
	adminApp.Delete("/admin/tips/:id", s.AdminDeleteTip)

	req = httptest.NewRequest(http.MethodDelete, "/admin/tips/1", nil)
	adminResp, err := adminApp.Test(req)
	require.NoError(t, err)
	defer func() { _ = adminResp.Body.Close() }()
	assert.Equal(t, http.StatusOK, adminResp.StatusCode)

	db.Model(&models.Tip{}).Where("id = ?", tip.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateTip_NewCategoryName(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "pioneer", models.RoleUser)

	app := fiber.New()
	app.Use(asUser(author.ID))
	app.Post("/tips", s.CreateTip)

	resp := postJSON(t, app, "/tips", map[string]interface{}{
		"title":         "Repair Cafe Basics",
		"content":       "Bring broken small appliances in before replacing them.",
		"category_name": "Repair Culture",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tip := decodeTip(t, resp)
	require.NotNil(t, tip.CategoryID)

	var category models.Category
	require.NoError(t, db.First(&category, *tip.CategoryID).Error)
	assert.Equal(t, "Repair Culture", category.Name)
	assert.Equal(t, "repair-culture", category.Slug)
	assert.False(t, category.IsApproved)
	require.NotNil(t, category.CreatedByID)
	assert.Equal(t, author.ID, *category.CreatedByID)

	// Naming a pending category again is rejected until a moderator rules.
	resp = postJSON(t, app, "/tips", map[string]interface{}{
		"title":         "Fix Before You Toss",
		"content":       "A new zipper costs a fraction of a new jacket.",
		"category_name": "repair culture",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	// Once approved, the same name attaches the existing category.
	require.NoError(t, db.Model(&models.Category{}).
		Where("id = ?", category.ID).
		Update("is_approved", true).Error)
	resp = postJSON(t, app, "/tips", map[string]interface{}{
		"title":         "Fix Before You Toss",
		"content":       "A new zipper costs a fraction of a new jacket.",
		"category_name": "repair culture",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	second := decodeTip(t, resp)
	require.NotNil(t, second.CategoryID)
	assert.Equal(t, category.ID, *second.CategoryID)
}

func TestCreateTip_ModeratorCategoryNameGoesLive(t *testing.T) {
	s, db := newTestServer(t)
	moderator := mustCreateUser(t, db, "curator", models.RoleModerator)

	app := fiber.New()
	app.Use(asUser(moderator.ID))
	app.Post("/tips", s.CreateTip)

	resp := postJSON(t, app, "/tips", map[string]interface{}{
		"title":         "Collect Rainwater",
		"content":       "A simple barrel under the downspout covers most garden needs.",
		"category_name": "Water Harvesting",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tip := decodeTip(t, resp)
	require.NotNil(t, tip.CategoryID)

	var category models.Category
	require.NoError(t, db.First(&category, *tip.CategoryID).Error)
	assert.True(t, category.IsApproved)
	require.NotNil(t, category.ApprovedByID)
	assert.Equal(t, moderator.ID, *category.ApprovedByID)
}

func TestGetTips_DeactivatedAuthorHidden(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "ghost", models.RoleUser)

	authorApp := fiber.New()
	authorApp.Use(asUser(author.ID))
	authorApp.Post("/tips", s.CreateTip)
	resp := postJSON(t, authorApp, "/tips", map[string]interface{}{
		"title":   "Line Dry Your Laundry",
		"content": "Skip the dryer whenever the weather cooperates.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", author.ID).
		Update("is_active", false).Error)

	app := fiber.New()
	app.Get("/tips", s.GetTips)

	req := httptest.NewRequest(http.MethodGet, "/tips", nil)
	listResp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = listResp.Body.Close() }()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var listed struct {
		Tips  []models.Tip `json:"tips"`
		Total int64        `json:"total"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	assert.Equal(t, int64(0), listed.Total)
	assert.Empty(t, listed.Tips)
}
