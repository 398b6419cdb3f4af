// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"greenlifestyle/internal/cache"
	"greenlifestyle/internal/config"
	"greenlifestyle/internal/database"
	"greenlifestyle/internal/middleware"
	"greenlifestyle/internal/models"
	"greenlifestyle/internal/observability"
	"greenlifestyle/internal/repository"
	"greenlifestyle/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tracingStop    func(context.Context) error

	userRepo        repository.UserRepository
	followRepo      repository.FollowRepository
	categoryRepo    repository.CategoryRepository
	tipRepo         repository.TipRepository
	interactionRepo repository.InteractionRepository
	commentRepo     repository.CommentRepository
	activityRepo    repository.ActivityRepository

	userService        *service.UserService
	followService      *service.FollowService
	categoryService    *service.CategoryService
	tipService         *service.TipService
	interactionService *service.InteractionService
	commentService     *service.CommentService
	activityService    *service.ActivityService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests and bootstrap code that establish their own DB/Redis use this.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  observability.InitHTTPMetrics("greenlifestyle-api"),
		userRepo:        repository.NewUserRepository(db),
		followRepo:      repository.NewFollowRepository(db),
		categoryRepo:    repository.NewCategoryRepository(db),
		tipRepo:         repository.NewTipRepository(db),
		interactionRepo: repository.NewInteractionRepository(db),
		commentRepo:     repository.NewCommentRepository(db),
		activityRepo:    repository.NewActivityRepository(db),
	}

	server.userService = service.NewUserService(server.userRepo, server.followRepo)
	server.followService = service.NewFollowService(server.followRepo, server.userRepo)
	server.categoryService = service.NewCategoryService(server.categoryRepo, server.userRepo)
	server.tipService = service.NewTipService(server.tipRepo, server.categoryRepo, server.userRepo)
	server.interactionService = service.NewInteractionService(server.interactionRepo, server.tipRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.tipRepo, server.userRepo)
	server.activityService = service.NewActivityService(server.activityRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	// Daily activity tracking for every API request, signed-in or not.
	app.Use(s.TrackActivity())
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Green Lifestyle Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public tip routes. OptionalAuth personalizes liked/bookmarked flags.
	publicTips := api.Group("/tips", middleware.OptionalAuth)
	publicTips.Get("/", middleware.RateLimit(
		s.redis, 60, time.Minute, "search"), s.GetTips)
	// Specific /:slug/:resource routes before the generic /:slug route
	publicTips.Get("/:slug/comments", s.GetComments)
	publicTips.Get("/:slug/related", s.GetRelatedTips)
	publicTips.Get("/:slug", s.GetTip)

	// Public category routes
	categories := api.Group("/categories", middleware.OptionalAuth)
	categories.Get("/", s.GetCategories)
	categories.Get("/:slug", s.GetCategory)
	categories.Get("/:slug/tips", s.GetCategoryTips)

	// Public profile routes
	api.Get("/users/:username/profile", middleware.OptionalAuth, s.GetUserProfile)
	api.Get("/users/:username/tips", middleware.OptionalAuth, s.GetUserTips)
	api.Get("/users/:username/followers", s.GetFollowers)
	api.Get("/users/:username/following", s.GetFollowing)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Account routes
	me := protected.Group("/me")
	me.Get("/", s.GetMyProfile)
	me.Put("/", s.UpdateMyProfile)
	me.Put("/password", s.ChangePassword)
	me.Delete("/", s.DeleteMyAccount)
	me.Get("/tips", s.GetMyTips)
	me.Get("/saved", s.GetSavedTips)
	me.Get("/activity", s.GetMyActivity)
	me.Get("/streak", s.GetMyStreak)

	// Follow routes
	protected.Post("/users/:username/follow", s.ToggleFollow)

	// Tip writes
	tips := protected.Group("/tips")
	tips.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_tip"), s.CreateTip)
	tips.Post("/:slug/like", s.ToggleLike)
	tips.Post("/:slug/bookmark", s.ToggleBookmark)
	tips.Post("/:slug/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	tips.Put("/:id", s.UpdateTip)
	tips.Delete("/:id", s.DeleteTip)

	// Comment edits
	comments := protected.Group("/comments")
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// Category proposals
	protected.Post("/categories", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "propose_category"), s.ProposeCategory)

	// Moderation routes
	moderation := protected.Group("/moderation", s.ModeratorRequired())
	moderation.Get("/categories/pending", s.GetPendingCategories)
	moderation.Post("/categories/:id/approve", s.ApproveCategory)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/dashboard", s.AdminDashboard)
	admin.Get("/users", s.AdminListUsers)
	admin.Put("/users/:id/role", s.AdminSetUserRole)
	admin.Put("/users/:id/active", s.AdminSetUserActive)
	admin.Delete("/users/:id", s.AdminDeleteUser)
	admin.Put("/tips/:id/published", s.AdminSetTipPublished)
	admin.Delete("/tips/:id", s.AdminDeleteTip)
	admin.Get("/categories", s.AdminListCategories)
	admin.Put("/categories/:id", s.AdminUpdateCategory)
	admin.Delete("/categories/:id", s.AdminDeleteCategory)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// The app degrades gracefully without Redis, so it only gates
	// readiness when configured but unreachable.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "disabled"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// ModeratorRequired returns middleware that rejects users below moderator.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) ModeratorRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.currentUser(c)
		if err != nil {
			return respondError(c, err)
		}
		if !user.IsModerator() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Moderator access required"))
		}
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.currentUser(c)
		if err != nil {
			return respondError(c, err)
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	stop, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  "greenlifestyle-api",
		Environment:  s.config.Env,
		Enabled:      s.config.TracingEnabled,
		Exporter:     s.config.TracingExporter,
		OTLPEndpoint: s.config.OTLPEndpoint,
		SamplerRatio: s.config.TracingSampler,
	})
	if err != nil {
		middleware.Logger.Error("tracing init failed", "error", err)
	} else {
		s.tracingStop = stop
	}

	app := fiber.New(fiber.Config{
		AppName: "Green Lifestyle API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fiberErr, ok := err.(*fiber.Error); ok {
				return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.tracingStop != nil {
		if err := s.tracingStop(ctx); err != nil {
			middleware.Logger.Error("error shutting down tracing", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
