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

func TestToggleLike_OnAndOff(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "tipauthor", models.RoleUser)
	reader := mustCreateUser(t, db, "reader", models.RoleUser)

	authorApp := fiber.New()
	authorApp.Use(asUser(author.ID))
	authorApp.Post("/tips", s.CreateTip)
	resp := postJSON(t, authorApp, "/tips", map[string]interface{}{
		"title":   "Switch to LED Bulbs",
		"content": "They use a fraction of the power and last for years.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tip := decodeTip(t, resp)

	app := fiber.New()
	app.Use(asUser(reader.ID))
	app.Post("/tips/:slug/like", s.ToggleLike)

	var result struct {
		Liked bool  `json:"liked"`
		Count int64 `json:"count"`
	}

	likeResp := postJSON(t, app, "/tips/"+tip.Slug+"/like", nil)
	defer func() { _ = likeResp.Body.Close() }()
	require.Equal(t, http.StatusOK, likeResp.StatusCode)
	require.NoError(t, json.NewDecoder(likeResp.Body).Decode(&result))
	assert.True(t, result.Liked)
	assert.Equal(t, int64(1), result.Count)

	unlikeResp := postJSON(t, app, "/tips/"+tip.Slug+"/like", nil)
	defer func() { _ = unlikeResp.Body.Close() }()
	require.NoError(t, json.NewDecoder(unlikeResp.Body).Decode(&result))
	assert.False(t, result.Liked)
	assert.Equal(t, int64(0), result.Count)
}

func TestToggleBookmark_ShowsUpInSaved(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "writer", models.RoleUser)
	collector := mustCreateUser(t, db, "collector", models.RoleUser)

	authorApp := fiber.New()
	authorApp.Use(asUser(author.ID))
	authorApp.Post("/tips", s.CreateTip)
	resp := postJSON(t, authorApp, "/tips", map[string]interface{}{
		"title":   "Mend Your Clothes",
		"content": "A basic sewing kit keeps garments out of the landfill.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tip := decodeTip(t, resp)

	app := fiber.New()
	app.Use(asUser(collector.ID))
	app.Post("/tips/:slug/bookmark", s.ToggleBookmark)
	app.Get("/me/saved", s.GetSavedTips)

	bmResp := postJSON(t, app, "/tips/"+tip.Slug+"/bookmark", nil)
	defer func() { _ = bmResp.Body.Close() }()
	require.Equal(t, http.StatusOK, bmResp.StatusCode)

	var result struct {
		Bookmarked bool  `json:"bookmarked"`
		Count      int64 `json:"count"`
	}
	require.NoError(t, json.NewDecoder(bmResp.Body).Decode(&result))
	assert.True(t, result.Bookmarked)

	req := httptest.NewRequest(http.MethodGet, "/me/saved", nil)
	savedResp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = savedResp.Body.Close() }()

	var saved struct {
		Tips  []models.Tip `json:"tips"`
		Total int64        `json:"total"`
	}
	require.NoError(t, json.NewDecoder(savedResp.Body).Decode(&saved))
	require.Len(t, saved.Tips, 1)
	assert.Equal(t, tip.Slug, saved.Tips[0].Slug)
	assert.True(t, saved.Tips[0].Bookmarked)
}

func TestToggleLike_DraftNotFound(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "secretive", models.RoleUser)
	reader := mustCreateUser(t, db, "snooper", models.RoleUser)

	authorApp := fiber.New()
	authorApp.Use(asUser(author.ID))
	authorApp.Post("/tips", s.CreateTip)
	resp := postJSON(t, authorApp, "/tips", map[string]interface{}{
		"title":   "Not Ready Yet",
		"content": "This draft should not accept likes from anyone.",
		"draft":   true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tip := decodeTip(t, resp)

	app := fiber.New()
	app.Use(asUser(reader.ID))
	app.Post("/tips/:slug/like", s.ToggleLike)

	likeResp := postJSON(t, app, "/tips/"+tip.Slug+"/like", nil)
	defer func() { _ = likeResp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, likeResp.StatusCode)
}

func TestComments_CreateListDelete(t *testing.T) {
	s, db := newTestServer(t)
	author := mustCreateUser(t, db, "poster", models.RoleUser)
	commenter := mustCreateUser(t, db, "commenter", models.RoleUser)

	authorApp := fiber.New()
	authorApp.Use(asUser(author.ID))
	authorApp.Post("/tips", s.CreateTip)
	resp := postJSON(t, authorApp, "/tips", map[string]interface{}{
		"title":   "Cold Wash Cycle",
		"content": "Most loads come out just as clean at thirty degrees.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tip := decodeTip(t, resp)

	app := fiber.New()
	app.Use(asUser(commenter.ID))
	app.Post("/tips/:slug/comments", s.CreateComment)
	app.Get("/tips/:slug/comments", s.GetComments)
	app.Delete("/comments/:id", s.DeleteComment)

	createResp := postJSON(t, app, "/tips/"+tip.Slug+"/comments", map[string]string{
		"content": "Tried this for a month, no difference in results.",
	})
	require.Equal(t, http.StatusCreated, createResp.StatusCode)
	var comment models.Comment
	require.NoError(t, json.NewDecoder(createResp.Body).Decode(&comment))
	_ = createResp.Body.Close()
	assert.Equal(t, commenter.ID, comment.AuthorID)
	assert.Equal(t, commenter.Username, comment.Author.Username)

	req := httptest.NewRequest(http.MethodGet, "/tips/"+tip.Slug+"/comments", nil)
	listResp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = listResp.Body.Close() }()
	var listed struct {
		Comments []models.Comment `json:"comments"`
		Total    int64            `json:"total"`
	}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&listed))
	assert.Equal(t, int64(1), listed.Total)

	req = httptest.NewRequest(http.MethodDelete, "/comments/1", nil)
	delResp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = delResp.Body.Close() }()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
