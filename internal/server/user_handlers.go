package server

import (
	"greenlifestyle/internal/cache"
	"greenlifestyle/internal/models"
	"greenlifestyle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Bio          *string `json:"bio"`
		Gender       *string `json:"gender"`
		Education    *string `json:"education"`
		Location     *string `json:"location"`
		Website      *string `json:"website"`
		EcoInterests *string `json:"eco_interests"`
		AvatarURL    *string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:       currentUserID(c),
		Bio:          req.Bio,
		Gender:       req.Gender,
		Education:    req.Education,
		Location:     req.Location,
		Website:      req.Website,
		EcoInterests: req.EcoInterests,
		AvatarURL:    req.AvatarURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// ChangePassword handles PUT /api/me/password
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.ChangePassword(c.UserContext(), currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// DeleteMyAccount handles DELETE /api/me
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.DeleteAccount(c.UserContext(), currentUserID(c), req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetUserProfile handles GET /api/users/:username/profile
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	// Profiles of other users are cache candidates; the viewer-specific
	// is_following flag keeps personalized responses out of the cache.
	viewerID := currentUserID(c)
	if viewerID == 0 {
		var profile service.Profile
		err := cache.Aside(c.UserContext(), cache.ProfileKey(username), &profile, cache.UserTTL, func() error {
			fresh, err := s.userService.GetProfile(c.UserContext(), username, 0)
			if err != nil {
				return err
			}
			profile = *fresh
			return nil
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(profile)
	}

	profile, err := s.userService.GetProfile(c.UserContext(), username, viewerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// GetUserTips handles GET /api/users/:username/tips
func (s *Server) GetUserTips(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	tips, total, err := s.tipService.ListByAuthor(c.UserContext(), c.Params("username"), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, "tips", tips, total, p)
}
