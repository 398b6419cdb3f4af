package server

import (
	"greenlifestyle/internal/models"
	"greenlifestyle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories and lists approved categories only
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListApproved(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetCategory handles GET /api/categories/:slug
func (s *Server) GetCategory(c *fiber.Ctx) error {
	category, err := s.categoryService.GetBySlug(c.UserContext(), c.Params("slug"), s.isModerator(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

// GetCategoryTips handles GET /api/categories/:slug/tips
func (s *Server) GetCategoryTips(c *fiber.Ctx) error {
	slugVal := c.Params("slug")

	// Resolve first so an unknown or pending category is a 404, not an
	// empty list.
	if _, err := s.categoryService.GetBySlug(c.UserContext(), slugVal, s.isModerator(c)); err != nil {
		return respondError(c, err)
	}

	p := parsePagination(c, 20)
	tips, total, err := s.tipService.List(c.UserContext(), service.ListTipsInput{
		CategorySlug:  slugVal,
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

// ProposeCategory handles POST /api/categories
func (s *Server) ProposeCategory(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.Propose(c.UserContext(), service.ProposeCategoryInput{
		UserID:      currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// GetPendingCategories handles GET /api/moderation/categories/pending
func (s *Server) GetPendingCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListPending(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// ApproveCategory handles POST /api/moderation/categories/:id/approve
func (s *Server) ApproveCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, approveErr := s.categoryService.Approve(c.UserContext(), categoryID, currentUserID(c))
	if approveErr != nil {
		return respondError(c, approveErr)
	}
	return c.JSON(category)
}
