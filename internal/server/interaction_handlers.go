package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/tips/:slug/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	result, err := s.interactionService.ToggleLike(c.UserContext(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"liked": result.Active,
		"count": result.Count,
	})
}

// ToggleBookmark handles POST /api/tips/:slug/bookmark
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	result, err := s.interactionService.ToggleBookmark(c.UserContext(), currentUserID(c), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"bookmarked": result.Active,
		"count":      result.Count,
	})
}
