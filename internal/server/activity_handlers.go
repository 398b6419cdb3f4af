package server

import (
	"strings"
	"time"

	"greenlifestyle/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const sessionCookieName = "gl_session"

// TrackActivity returns middleware that records one visit per request
// against the caller's daily activity row. It runs the handler first, so
// route-level auth middleware has already resolved the user by the time the
// visit is attributed. Anonymous visitors are keyed by a long-lived session
// cookie.
func (s *Server) TrackActivity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		path := c.Path()
		if !strings.HasPrefix(path, "/api") || c.Method() == fiber.MethodOptions {
			return err
		}

		now := time.Now().UTC()
		tipViewed, _ := c.Locals("viewedTipID").(uint)

		if userID := currentUserID(c); userID != 0 {
			if trackErr := s.activityService.TrackUser(c.UserContext(), userID, now, tipViewed); trackErr != nil {
				middleware.Logger.WarnContext(c.UserContext(), "activity tracking failed", "error", trackErr)
			}
			return err
		}

		sessionID := c.Cookies(sessionCookieName)
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     sessionCookieName,
				Value:    sessionID,
				Expires:  now.AddDate(1, 0, 0),
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}
		if trackErr := s.activityService.TrackAnonymous(c.UserContext(), sessionID, now, tipViewed); trackErr != nil {
			middleware.Logger.WarnContext(c.UserContext(), "activity tracking failed", "error", trackErr)
		}
		return err
	}
}

// recordTipView marks the request as a tip read for the activity tracker.
func (s *Server) recordTipView(c *fiber.Ctx, tipID uint) {
	c.Locals("viewedTipID", tipID)
}

// GetMyActivity handles GET /api/me/activity
func (s *Server) GetMyActivity(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	history, err := s.activityService.History(c.UserContext(), currentUserID(c), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}

// GetMyStreak handles GET /api/me/streak
func (s *Server) GetMyStreak(c *fiber.Ctx) error {
	streak, err := s.activityService.Streak(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"streak": streak})
}
