package server

import (
	"greenlifestyle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/tips/:slug/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	p := parsePagination(c, 50)
	comments, total, err := s.commentService.List(c.UserContext(), c.Params("slug"), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return listResponse(c, "comments", comments, total, p)
}

// CreateComment handles POST /api/tips/:slug/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Add(c.UserContext(), currentUserID(c), c.Params("slug"), req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, updateErr := s.commentService.Update(c.UserContext(), commentID, currentUserID(c), req.Content)
	if updateErr != nil {
		return respondError(c, updateErr)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.UserContext(), commentID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
