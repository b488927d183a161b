// Command main is the entry point for the PropertyAdda backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propertyadda/internal/config"
	"propertyadda/internal/observability"
	"propertyadda/internal/seed"
	"propertyadda/internal/server"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize tracing (no-op unless enabled)
	tracingShutdown, err := observability.InitTracing(observability.TracingConfig{
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.TracingOTLPEndpoint,
		SamplerRatio: cfg.TracingSamplerRatio,
		ServiceName:  "propertyadda-api",
		Environment:  cfg.Env,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	// Create server with dependency injection
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// The in-process backend starts empty every boot, so it always gets the
	// baseline catalog; demo listings are opt-in for either backend.
	if cfg.StorageBackend == config.BackendMemory || cfg.SeedDemoData {
		opts := seed.Options{}
		if cfg.SeedDemoData {
			opts = seed.Options{DemoUsers: 10, DemoProperties: 40}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := seed.Seed(ctx, srv.Store(), opts); err != nil {
			cancel()
			log.Fatalf("Failed to seed store: %v", err)
		}
		cancel()
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "PropertyAdda API",
		BodyLimit: 10 * 1024 * 1024, // 10MB limit
	})

	// Setup middleware and routes
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server resource shutdown error: %v", err)
		}

		if err := tracingShutdown(ctx); err != nil {
			log.Printf("Tracing shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
