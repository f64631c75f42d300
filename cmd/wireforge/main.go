// Package main is the entry point for the wireforge API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wireforge/internal/ai"
	"wireforge/internal/config"
	"wireforge/internal/database"
	"wireforge/internal/handlers"
	"wireforge/internal/models"
	"wireforge/internal/router"
	"wireforge/internal/session"
	"wireforge/internal/storage"
	"wireforge/internal/store"
)

func main() {
	// Structured logger — text output, debug level.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the token revocation list. The app works
	// without it: logout falls back to clearing the cookie only.
	valkeyClient, err := session.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable — token revocation disabled", "error", err)
		valkeyClient = nil
	} else {
		defer valkeyClient.Close()
	}

	// Token issuer: process-wide signing secret loaded once, passed
	// explicitly. Cookies are Secure outside development.
	secureCookies := !cfg.IsDev()
	issuer := session.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry, valkeyClient, secureCookies)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	wireframeStore := store.NewWireframeStore(db)
	codeStore := store.NewGeneratedCodeStore(db)
	logStore := store.NewAILogStore(db)

	// Connect to S3-compatible object storage (optional — the app works
	// without it, image uploads are rejected).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3Bucket,
		)
	} else {
		slog.Warn("s3 storage not configured — image uploads disabled")
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(map[models.ProviderName]ai.ProviderConfig{
		models.ProviderChatGPT: {APIKey: cfg.ChatGPTKey, Model: cfg.ChatGPTModel, BaseURL: cfg.ChatGPTBaseURL},
		models.ProviderGemini:  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		models.ProviderCopilot: {APIKey: cfg.CopilotKey, Model: cfg.CopilotModel, BaseURL: cfg.CopilotBaseURL},
	})

	slog.Info("ai providers initialized", "available", aiRegistry.Available())

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(userStore, issuer)
	wireframeHandlers := handlers.NewWireframes(wireframeStore, codeStore, logStore, storageClient, aiRegistry)

	// Set up the Chi router with all middleware and routes.
	r := router.New(issuer, authHandlers, wireframeHandlers)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate endpoints that wait on LLM responses
	// (typically 10-30s, up to 60s for complex prompts).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
