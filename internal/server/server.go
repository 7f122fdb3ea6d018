// Package server contains the HTTP boundary: fiber route groups and thin
// handlers over the service layer.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gather/internal/cache"
	"gather/internal/config"
	"gather/internal/database"
	"gather/internal/mailer"
	"gather/internal/middleware"
	"gather/internal/models"
	"gather/internal/repository"
	"gather/internal/service"
	"gather/internal/storage"
	"gather/internal/token"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *token.Maker

	accounts      *service.AccountService
	posts         *service.PostService
	photos        *service.PhotoService
	comments      *service.CommentService
	likes         *service.LikeService
	follows       *service.FollowService
	feed          *service.FeedService
	notifications *service.NotificationService
	moderation    *service.ModerationService
	admin         *service.AdminService
	settings      *service.SettingsService
}

// NewServer creates a server with freshly initialized infrastructure: DB
// connection, redis cache, local file store, and SMTP mailer per config.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.Init(cfg.RedisURL)

	store, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload dir unusable: %w", err)
	}

	var mail mailer.Mailer = mailer.NoOp{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	}

	return NewServerWithDeps(cfg, db, cache.Client(), store, mail), nil
}

// NewServerWithDeps creates a Server over already-initialized dependencies.
// Tests use this with an in-memory DB, a fake file store, and no redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.FileStore, mail mailer.Mailer) *Server {
	tokens := token.NewMaker(cfg.JWTSecret)
	settings := service.NewSettingsService(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("gather-api"),
		tokens:         tokens,

		accounts: service.NewAccountService(db, settings, tokens, mail,
			time.Duration(cfg.SessionTTLHours)*time.Hour,
			time.Duration(cfg.ResetTokenTTLMinutes)*time.Minute),
		posts:         service.NewPostService(db),
		photos:        service.NewPhotoService(db, store),
		comments:      service.NewCommentService(db),
		likes:         service.NewLikeService(db),
		follows:       service.NewFollowService(db),
		feed:          service.NewFeedService(db, settings),
		notifications: service.NewNotificationService(db),
		moderation:    service.NewModerationService(db),
		admin:         service.NewAdminService(db, store),
		settings:      settings,
	}
	return s
}

// loadUser is the middleware.UserLoader for session resolution.
func (s *Server) loadUser(ctx context.Context, id uint) (*models.User, error) {
	return repository.NewUserRepository(s.db).GetByID(ctx, id)
}

// SetupMiddleware configures the global middleware chain.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	authRequired := middleware.SessionAuth(s.tokens, s.loadUser)
	authOptional := middleware.OptionalSession(s.tokens, s.loadUser)
	adminOnly := middleware.AdminRequired()

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/change-password", authRequired, s.ChangePassword)
	auth.Post("/reset-request", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "reset_request"), s.RequestPasswordReset)
	auth.Post("/reset-confirm", s.ConfirmPasswordReset)

	// User and profile routes
	users := api.Group("/users")
	users.Get("/me", authRequired, s.GetMyProfile)
	users.Put("/me", authRequired, s.UpdateMyProfile)
	users.Put("/me/avatar", authRequired, s.UploadAvatar)
	// Specific /:id/:resource routes before the generic /:id route.
	users.Get("/:id/posts", authOptional, s.GetUserPosts)
	users.Get("/:id/photos", authOptional, s.GetUserPhotos)
	users.Get("/:id/followers", authOptional, s.GetFollowers)
	users.Get("/:id/following", authOptional, s.GetFollowing)
	users.Post("/:id/follow", authRequired, s.FollowUser)
	users.Delete("/:id/follow", authRequired, s.UnfollowUser)
	users.Get("/:id", authOptional, s.GetUserProfile)

	// Post routes
	posts := api.Group("/posts")
	posts.Post("/", authRequired, s.CreatePost)
	posts.Get("/tag/:slug", authOptional, s.GetPostsByTag)
	posts.Get("/category/:slug", authOptional, s.GetPostsByCategory)
	posts.Get("/:id/comments", authOptional, s.GetPostComments)
	posts.Post("/:id/comments", authRequired, s.CreatePostComment)
	posts.Post("/:id/like", authRequired, s.LikePost)
	posts.Delete("/:id/like", authRequired, s.UnlikePost)
	posts.Get("/:id", authOptional, s.GetPost)
	posts.Put("/:id", authRequired, s.UpdatePost)
	posts.Delete("/:id", authRequired, s.DeletePost)

	// Photo routes
	photos := api.Group("/photos")
	photos.Post("/", authRequired, s.UploadPhoto)
	photos.Get("/:id/comments", authOptional, s.GetPhotoComments)
	photos.Post("/:id/comments", authRequired, s.CreatePhotoComment)
	photos.Post("/:id/like", authRequired, s.LikePhoto)
	photos.Delete("/:id/like", authRequired, s.UnlikePhoto)
	photos.Get("/:id", authOptional, s.GetPhoto)
	photos.Delete("/:id", authRequired, s.DeletePhoto)

	// Comment routes (edit/delete/reply/flag/like on an existing comment)
	comments := api.Group("/comments", authRequired)
	comments.Post("/:id/replies", s.ReplyToComment)
	comments.Post("/:id/like", s.LikeComment)
	comments.Delete("/:id/like", s.UnlikeComment)
	comments.Post("/:id/flag", s.FlagComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// Feed
	api.Get("/feed", authRequired, s.GetFeed)

	// Notifications and activity history
	notifs := api.Group("/notifications", authRequired)
	notifs.Get("/", s.GetNotifications)
	notifs.Get("/unread-count", s.GetUnreadCount)
	notifs.Post("/read-all", s.MarkAllNotificationsRead)
	notifs.Post("/:id/read", s.MarkNotificationRead)
	api.Get("/activities", authRequired, s.GetActivities)

	// Admin routes
	admin := api.Group("/admin", authRequired, adminOnly)
	admin.Get("/users/pending", s.GetPendingUsers)
	admin.Post("/users/:id/approve", s.ApproveUser)
	admin.Post("/users/:id/reject", s.RejectUser)
	admin.Get("/flags", s.GetOpenFlags)
	admin.Post("/flags/:id/resolve", s.ResolveFlag)
	admin.Get("/settings", s.GetSettings)
	admin.Put("/settings/:key", s.UpdateSetting)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so an
// unavailable cache degrades the report without failing it.
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

	cacheStatus := "disabled"
	if s.redis != nil {
		cacheStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			cacheStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"cache":    cacheStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the fiber app and begins serving.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Gather API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.ErrorContext(c.UserContext(), "unhandled error", "err", err)
			return respondError(c, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	slog.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and closes its connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("error shutting down HTTP server", "err", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("error closing sql DB", "err", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("error closing redis", "err", rerr)
		}
	}

	slog.Info("server shutdown complete")
	return nil
}
