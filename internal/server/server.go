// Package server contains the HTTP surface of the portfolio API: route
// registration, the authorization gate, and all request handlers.
package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"nexafolio/internal/auth"
	"nexafolio/internal/cache"
	"nexafolio/internal/config"
	"nexafolio/internal/database"
	"nexafolio/internal/middleware"
	"nexafolio/internal/models"
	"nexafolio/internal/repository"
	"nexafolio/internal/seed"
	"nexafolio/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// authCookieName is the cookie carrying the session token.
const authCookieName = "auth-token"

// Server holds all dependencies and provides handlers
type Server struct {
	config      *config.Config
	db          *gorm.DB // nil when running on the in-memory store
	redis       *redis.Client
	tokens      *auth.TokenManager
	limiter     *middleware.Limiter
	images      *service.ImageService
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	blogRepo    repository.BlogPostRepository
	messageRepo repository.MessageRepository
	log         *slog.Logger
}

// NewServer creates a server instance with all dependencies. When no
// database is configured the storage contract is satisfied by a
// transient in-memory store; callers of the data-access interfaces
// never see the difference.
func NewServer(cfg *config.Config) (*Server, error) {
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Connect(cfg)
		if err != nil {
			return nil, err
		}
	} else {
		middleware.Logger.Warn("no DATABASE_URL configured, using in-memory store (development only, data is lost on restart)")
	}

	redisClient := cache.Connect(cfg.RedisURL, middleware.Logger)

	return NewServerWithDeps(cfg, db, redisClient), nil
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. A nil db selects the in-memory store. Use this in tests
// or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	s := &Server{
		config:  cfg,
		db:      db,
		redis:   redisClient,
		tokens:  auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL()),
		limiter: middleware.NewLimiter(redisClient),
		images:  service.NewImageService(cfg.UploadDir),
		log:     middleware.Logger,
	}

	if db != nil {
		s.userRepo = repository.NewUserRepository(db)
		s.projectRepo = repository.NewProjectRepository(db)
		s.blogRepo = repository.NewBlogPostRepository(db)
		s.messageRepo = repository.NewMessageRepository(db)
	} else {
		store := repository.NewMemoryStore()
		s.userRepo = store.Users()
		s.projectRepo = store.Projects()
		s.blogRepo = store.BlogPosts()
		s.messageRepo = store.Messages()
	}

	return s
}

// SeedDemoData fills the in-memory store with an admin account and
// demo content so the API is usable without a database. No-op when a
// real database is configured.
func (s *Server) SeedDemoData(ctx context.Context) error {
	if s.db != nil {
		return nil
	}
	return seed.Run(ctx, seed.Store{
		Users:     s.userRepo,
		Projects:  s.projectRepo,
		BlogPosts: s.blogRepo,
		Messages:  s.messageRepo,
	}, seed.DefaultOptions(), s.log)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// Convert panics into 500s
	app.Use(recover.New())

	// Structured Logging middleware
	app.Use(middleware.StructuredLogger())

	// Prometheus metrics
	prom := fiberprometheus.New("nexafolio")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	// Uploaded images
	app.Static("/uploads", s.config.UploadDir)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", s.limiter.Handler("login", 10, 5*time.Minute), s.Login)
	authGroup.Post("/logout", s.Logout)
	authGroup.Get("/me", s.AuthRequired(), s.Me)

	// Project routes: reads are public, mutations require a session.
	projects := api.Group("/projects")
	projects.Get("/", s.ListProjects)
	projects.Get("/:id", s.GetProject)
	projects.Post("/", s.AuthRequired(), s.CreateProject)
	projects.Patch("/:id", s.AuthRequired(), s.UpdateProject)
	projects.Delete("/:id", s.AuthRequired(), s.DeleteProject)

	// Blog routes: reads are public (by id or slug), mutations by numeric id only.
	blog := api.Group("/blog")
	blog.Get("/", s.ListBlogPosts)
	blog.Get("/:idOrSlug", s.GetBlogPost)
	blog.Post("/", s.AuthRequired(), s.CreateBlogPost)
	blog.Patch("/:id", s.AuthRequired(), s.UpdateBlogPost)
	blog.Delete("/:id", s.AuthRequired(), s.DeleteBlogPost)

	// Contact messages: anyone may send, only admins may read or delete.
	messages := api.Group("/messages")
	messages.Post("/", s.limiter.Handler("contact", 5, time.Minute), s.CreateMessage)
	messages.Get("/", s.AuthRequired(), s.ListMessages)
	messages.Delete("/:id", s.AuthRequired(), s.DeleteMessage)

	// Image upload for project/blog covers
	api.Post("/upload", s.AuthRequired(), s.Upload)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "memory"
	if s.db != nil {
		dbStatus = "healthy"
		sqlDB, err := s.db.DB()
		if err != nil {
			dbStatus = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "unhealthy"
		}
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "nexafolio",
		"status":  "ok",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the middleware guarding protected routes. It
// resolves the session token (auth cookie first, then a bearer header)
// to a durable user record. Missing token, invalid token and unknown
// user all produce the same generic 401.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := s.resolveSession(c)
		if user == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		return c.Next()
	}
}

// resolveSession returns the user for the request's session token, or
// nil if there is no valid session.
func (s *Server) resolveSession(c *fiber.Ctx) *models.User {
	token := c.Cookies(authCookieName)
	if token == "" {
		if h := c.Get("Authorization"); h != "" {
			parts := strings.SplitN(h, " ", 2)
			if len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}
	}
	if token == "" {
		return nil
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.log.Debug("session token rejected", slog.String("error", err.Error()))
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if !models.IsNotFound(err) {
			s.log.Error("session user lookup failed", slog.String("error", err.Error()))
		}
		return nil
	}
	return user
}

// BuildApp constructs the Fiber application with all middleware and
// routes registered. Listening is left to the caller so it can own the
// shutdown sequence.
func (s *Server) BuildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Portfolio API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			s.log.Error("unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Shutdown releases the server's shared resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				s.log.Error("error closing sql DB", slog.String("error", cerr.Error()))
			}
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			s.log.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	s.log.Info("server shutdown complete")
	return nil
}
