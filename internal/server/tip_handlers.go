package server

import (
	"greenlifestyle/internal/models"
	"greenlifestyle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTips handles GET /api/tips
// Query parameters: category, search, date_range (7d|30d), sort
// (newest|oldest|most_liked|most_commented), limit, offset.
func (s *Server) GetTips(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	tips, total, err := s.tipService.List(c.UserContext(), service.ListTipsInput{
		CategorySlug:  c.Query("category"),
		Search:        c.Query("search"),
		DateRange:     c.Query("date_range"),
		Sort:          c.Query("sort"),
		CurrentUserID: currentUserID(c),
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, "tips", tips, total, p)
}

// GetTip handles GET /api/tips/:slug
func (s *Server) GetTip(c *fiber.Ctx) error {
	slugVal := c.Params("slug")
	tip, err := s.tipService.Get(c.UserContext(), slugVal, currentUserID(c), s.isModerator(c))
	if err != nil {
		return respondError(c, err)
	}

	// A tip read counts toward the viewer's daily activity.
	s.recordTipView(c, tip.ID)

	return c.JSON(tip)
}

// GetRelatedTips handles GET /api/tips/:slug/related
func (s *Server) GetRelatedTips(c *fiber.Ctx) error {
	tips, err := s.tipService.ListRelated(c.UserContext(), c.Params("slug"), currentUserID(c), 3)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tips": tips})
}

// GetMyTips handles GET /api/me/tips and includes drafts
func (s *Server) GetMyTips(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	tips, total, err := s.tipService.ListMine(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, "tips", tips, total, p)
}

// GetSavedTips handles GET /api/me/saved
func (s *Server) GetSavedTips(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	tips, total, err := s.tipService.ListSaved(c.UserContext(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, "tips", tips, total, p)
}

// CreateTip handles POST /api/tips
func (s *Server) CreateTip(c *fiber.Ctx) error {
	var req struct {
		Title        string `json:"title"`
		Content      string `json:"content"`
		ImageURL     string `json:"image_url"`
		ImageSize    int64  `json:"image_size"`
		CategoryID   *uint  `json:"category_id"`
		CategoryName string `json:"category_name"`
		Draft        bool   `json:"draft"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tip, err := s.tipService.Create(c.UserContext(), service.CreateTipInput{
		AuthorID:     currentUserID(c),
		Title:        req.Title,
		Content:      req.Content,
		ImageURL:     req.ImageURL,
		ImageSize:    req.ImageSize,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		Draft:        req.Draft,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tip)
}

// UpdateTip handles PUT /api/tips/:id
func (s *Server) UpdateTip(c *fiber.Ctx) error {
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      *string `json:"title"`
		Content    *string `json:"content"`
		ImageURL   *string `json:"image_url"`
		ImageSize  int64   `json:"image_size"`
		CategoryID *uint   `json:"category_id"`
		Published  *bool   `json:"published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tip, updateErr := s.tipService.Update(c.UserContext(), service.UpdateTipInput{
		UserID:     currentUserID(c),
		TipID:      tipID,
		Title:      req.Title,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
		ImageSize:  req.ImageSize,
		CategoryID: req.CategoryID,
		Published:  req.Published,
	})
	if updateErr != nil {
		return respondError(c, updateErr)
	}
	return c.JSON(tip)
}

// DeleteTip handles DELETE /api/tips/:id
func (s *Server) DeleteTip(c *fiber.Ctx) error {
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tipService.Delete(c.UserContext(), tipID, currentUserID(c), false); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
