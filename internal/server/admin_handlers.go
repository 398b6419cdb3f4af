package server

import (
	"time"

	"greenlifestyle/internal/models"
	"greenlifestyle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminDashboard handles GET /api/admin/dashboard
func (s *Server) AdminDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	monthAgo := time.Now().AddDate(0, 0, -30)

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return respondError(c, err)
	}
	newUsers, err := s.userRepo.CountCreatedSince(ctx, monthAgo)
	if err != nil {
		return respondError(c, err)
	}
	totalTips, err := s.tipRepo.Count(ctx, false)
	if err != nil {
		return respondError(c, err)
	}
	publishedTips, err := s.tipRepo.Count(ctx, true)
	if err != nil {
		return respondError(c, err)
	}
	newTips, err := s.tipRepo.CountCreatedSince(ctx, monthAgo)
	if err != nil {
		return respondError(c, err)
	}
	totalCategories, err := s.categoryRepo.Count(ctx)
	if err != nil {
		return respondError(c, err)
	}
	totalLikes, err := s.interactionRepo.CountAllLikes(ctx)
	if err != nil {
		return respondError(c, err)
	}
	newLikes, err := s.interactionRepo.CountLikesSince(ctx, monthAgo)
	if err != nil {
		return respondError(c, err)
	}
	totalComments, err := s.commentRepo.Count(ctx)
	if err != nil {
		return respondError(c, err)
	}
	activeSubjects, err := s.activityRepo.CountActiveSince(ctx, monthAgo)
	if err != nil {
		return respondError(c, err)
	}
	pending, err := s.categoryRepo.ListPending(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"users": fiber.Map{
			"total":      totalUsers,
			"new_30d":    newUsers,
			"active_30d": activeSubjects,
		},
		"tips": fiber.Map{
			"total":     totalTips,
			"published": publishedTips,
			"new_30d":   newTips,
		},
		"categories":         totalCategories,
		"likes":              totalLikes,
		"likes_30d":          newLikes,
		"comments":           totalComments,
		"pending_categories": len(pending),
	})
}

// AdminListUsers handles GET /api/admin/users
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	users, err := s.userRepo.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	total, err := s.userRepo.Count(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, "users", users, total, p)
}

// AdminSetUserRole handles PUT /api/admin/users/:id/role
func (s *Server) AdminSetUserRole(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	role := models.Role(req.Role)
	if !models.ValidRole(role) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid role (use user, moderator or admin)"))
	}

	// Admins cannot demote themselves; that path loses the last admin.
	if userID == currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot change your own role"))
	}

	if err := s.userRepo.SetRole(c.UserContext(), userID, role); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// AdminSetUserActive handles PUT /api/admin/users/:id/active
func (s *Server) AdminSetUserActive(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if userID == currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot deactivate your own account"))
	}

	if err := s.userRepo.SetActive(c.UserContext(), userID, *req.Active); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// AdminDeleteUser handles DELETE /api/admin/users/:id
func (s *Server) AdminDeleteUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if userID == currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("You cannot delete your own account here"))
	}

	if err := s.userRepo.Delete(c.UserContext(), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// AdminSetTipPublished handles PUT /api/admin/tips/:id/published
func (s *Server) AdminSetTipPublished(c *fiber.Ctx) error {
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Published *bool `json:"published"`
	}
	if err := c.BodyParser(&req); err != nil || req.Published == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tip, setErr := s.tipService.SetPublished(c.UserContext(), tipID, *req.Published)
	if setErr != nil {
		return respondError(c, setErr)
	}
	return c.JSON(tip)
}

// AdminDeleteTip handles DELETE /api/admin/tips/:id
func (s *Server) AdminDeleteTip(c *fiber.Ctx) error {
	tipID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tipService.Delete(c.UserContext(), tipID, currentUserID(c), true); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// AdminListCategories handles GET /api/admin/categories and includes pending ones
func (s *Server) AdminListCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// AdminUpdateCategory handles PUT /api/admin/categories/:id
func (s *Server) AdminUpdateCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, updateErr := s.categoryService.Update(c.UserContext(), service.UpdateCategoryInput{
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if updateErr != nil {
		return respondError(c, updateErr)
	}
	return c.JSON(category)
}

// AdminDeleteCategory handles DELETE /api/admin/categories/:id
func (s *Server) AdminDeleteCategory(c *fiber.Ctx) error {
	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.Delete(c.UserContext(), categoryID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
