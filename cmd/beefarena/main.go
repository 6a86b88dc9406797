// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Beef Arena server.
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

	"beefarena/internal/ai"
	"beefarena/internal/arena"
	"beefarena/internal/cache"
	"beefarena/internal/config"
	"beefarena/internal/database"
	"beefarena/internal/handlers"
	"beefarena/internal/middleware"
	"beefarena/internal/render"
	"beefarena/internal/router"
	"beefarena/internal/storage"
	"beefarena/internal/store"
)

// replicateCDN serves finished predictions; posters that could not be
// archived are loaded from here by the browser.
var replicateCDN = []string{"https://replicate.delivery", "https://*.replicate.delivery"}

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON otherwise.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	ctx := context.Background()

	// Connect to PostgreSQL.
	db, err := database.Connect(ctx, cfg.DSN())
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

	// Valkey is optional: without it generation lookups always hit PostgreSQL.
	var genCache *cache.GenerationCache
	if cfg.ValkeyHost != "" {
		valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		genCache = cache.NewGenerationCache(valkeyClient, cache.DefaultGenerationTTL)
	} else {
		slog.Warn("valkey not configured, generation cache disabled")
	}

	// Connect to S3-compatible object storage (optional).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}

	imgSources := append([]string(nil), replicateCDN...)
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
		imgSources = append(imgSources, storageClient.FileURL(""))
	} else {
		slog.Warn("s3 storage not configured, posters are not archived and selfie uploads are disabled")
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry, err := ai.NewRegistry(ctx, ai.Config{
		ActiveCaptions: cfg.CaptionProvider,
		OpenAI:         ai.ProviderConfig{APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		Gemini:         ai.ProviderConfig{APIKey: cfg.GeminiKey, Model: cfg.GeminiModel},
		Replicate:      ai.ProviderConfig{APIKey: cfg.ReplicateToken, Model: cfg.ReplicateModel, BaseURL: cfg.ReplicateBaseURL},
	})
	if err != nil {
		slog.Error("failed to initialize ai providers", "error", err)
		os.Exit(1)
	}

	slog.Info("ai providers initialized",
		"captions", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
		"image_model", aiRegistry.ImageModel(),
	)

	generationStore := store.NewGenerationStore(db)

	deps := arena.Deps{
		Moderator:  aiRegistry,
		Images:     aiRegistry,
		Captions:   aiRegistry,
		Recorder:   generationStore,
		ImageModel: aiRegistry.ImageModel(),
	}
	var uploader handlers.Uploader
	if storageClient != nil {
		deps.Archiver = storageClient
		uploader = storageClient
	}
	service := arena.NewService(deps)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	var readCache handlers.GenerationCache
	if genCache != nil {
		readCache = genCache
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	r := router.New(
		handlers.NewArena(service, generationStore, readCache, uploader),
		handlers.NewPage(renderer, uploader != nil),
		router.Options{Limiter: limiter, ImageSources: imgSources},
	)

	// WriteTimeout must cover a full pipeline: moderation, a Replicate
	// prediction (up to two minutes with polling) and the caption call.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
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

	// In-flight generations can take minutes; give them a bounded grace period.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
