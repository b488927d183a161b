// Package server contains the HTTP handlers for the application's API
// endpoints and the route/middleware wiring around them.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"propertyadda/internal/cache"
	"propertyadda/internal/config"
	"propertyadda/internal/database"
	"propertyadda/internal/middleware"
	"propertyadda/internal/session"
	"propertyadda/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	store          storage.Store
	sessions       *session.Manager
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
}

// NewServer creates a server instance, selecting the storage backend from
// configuration: a relational store by default, or the in-process map store
// as a development/demo fallback.
func NewServer(cfg *config.Config) (*Server, error) {
	var store storage.Store
	switch cfg.StorageBackend {
	case config.BackendMemory:
		store = storage.NewMemStore()
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		store = storage.NewGormStore(db)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	// Sessions live in Redis when it is reachable so they survive restarts;
	// otherwise an in-process store keeps development working.
	var sessionStore session.Store
	if redisClient != nil {
		sessionStore = session.NewRedisStore(redisClient)
	} else {
		sessionStore = session.NewMemoryStore()
	}
	sessions := session.NewManager(sessionStore, time.Duration(cfg.SessionTTLHours)*time.Hour)

	return NewServerWithDeps(cfg, store, sessions, redisClient), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the store and
// session manager itself.
func NewServerWithDeps(cfg *config.Config, store storage.Store, sessions *session.Manager, redisClient *redis.Client) *Server {
	return &Server{
		config:         cfg,
		store:          store,
		sessions:       sessions,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("propertyadda-api"),
	}
}

// Store exposes the backing store for bootstrap-time seeding.
func (s *Server) Store() storage.Store {
	return s.store
}

// Shutdown releases server-owned resources: the backing store's connection
// pool (when it has one) and the Redis client.
func (s *Server) Shutdown(ctx context.Context) error {
	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			middleware.Logger.Error("Error closing store", slog.String("error", err.Error()))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("Error closing redis", slog.String("error", err.Error()))
		}
	}
	return nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// OpenTelemetry spans (no-op tracer unless enabled in config)
	app.Use(middleware.TracingMiddleware())

	// Context middleware to propagate request ID and user ID into logs
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Cookie",
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
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "PropertyAdda Backend Metrics Dashboard",
	}))

	// Auth routes
	api.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	api.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	api.Get("/logout", s.AuthRequired(), s.Logout)
	api.Get("/me", s.AuthRequired(), s.Me)

	// Admin user listing
	api.Get("/users", s.AdminRequired(), s.GetUsers)

	// Property routes. The authenticated /my-properties route is registered
	// before the public /properties/:id wildcard.
	api.Get("/my-properties", s.AuthRequired(), s.GetMyProperties)
	api.Get("/properties", s.GetProperties)
	api.Post("/properties", s.AuthRequired(), s.CreateProperty)
	api.Get("/properties/:id", s.GetProperty)
	api.Put("/properties/:id", s.AuthRequired(), s.UpdateProperty)
	api.Delete("/properties/:id", s.AuthRequired(), s.DeleteProperty)

	// Catalog routes: public reads, admin-only writes
	api.Get("/cities", s.GetCities)
	api.Post("/cities", s.AdminRequired(), s.CreateCity)
	api.Get("/cities/:id", s.GetCity)
	api.Get("/agents", s.GetAgents)
	api.Post("/agents", s.AdminRequired(), s.CreateAgent)
	api.Get("/agents/:id", s.GetAgent)
	api.Get("/services", s.GetServices)
	api.Post("/services", s.AdminRequired(), s.CreateService)
	api.Get("/services/:id", s.GetService)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the backing store is reachable.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
