package server

import (
	"errors"

	"greenlifestyle/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's ID, or 0 for anonymous
// requests that passed through OptionalAuth.
func currentUserID(c *fiber.Ctx) uint {
	if userID, ok := c.Locals("userID").(uint); ok {
		return userID
	}
	return 0
}

// currentUser loads the authenticated user's row. Requires AuthRequired
// upstream.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID := currentUserID(c)
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authorization required")
	}
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewUnauthorizedError("Account no longer exists")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, models.NewForbiddenError("Account is deactivated")
	}
	return user, nil
}

// isModerator reports whether the request is from a moderator or admin.
// Anonymous or unknown users read as false.
func (s *Server) isModerator(c *fiber.Ctx) bool {
	userID := currentUserID(c)
	if userID == 0 {
		return false
	}
	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return false
	}
	return user.IsModerator()
}

// respondError maps service errors to HTTP responses.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// listResponse is the standard shape for paginated collections.
func listResponse(c *fiber.Ctx, key string, items interface{}, total int64, p Pagination) error {
	return c.JSON(fiber.Map{
		key:      items,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}
