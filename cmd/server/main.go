package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faultline/faultline/internal/config"
	"github.com/faultline/faultline/internal/database"
	"github.com/faultline/faultline/internal/handler"
	"github.com/faultline/faultline/internal/heuristics"
	"github.com/faultline/faultline/internal/normalizer"
	"github.com/faultline/faultline/internal/scheduler"
	"github.com/faultline/faultline/internal/service"
	"github.com/faultline/faultline/internal/store"
	"github.com/faultline/faultline/internal/synthesis"
	"github.com/faultline/faultline/internal/worker"
	"github.com/faultline/faultline/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting Faultline Analysis Service", "version", version)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to Redis
	rdb, err := store.Connect(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			slog.Error("Failed to close Redis connection", "error", err)
		}
	}()

	// Connect to MongoDB
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	// Create indexes
	if err := database.CreateIndexes(ctx, db); err != nil {
		slog.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	// Initialize stores
	jobStore := store.NewJobStore(rdb, cfg.JobTTL)
	resultCache := store.NewResultCache(rdb, cfg.CacheTTL)
	claimStore := store.NewClaimStore(rdb, cfg.ClaimTTL)
	feedbackRepo := database.NewFeedbackRepository(db)

	// Initialize analysis components
	norm := normalizer.New(normalizer.Limits{
		MaxEndpoints:  cfg.MaxEndpoints,
		MaxComponents: cfg.MaxComponents,
		MaxSections:   cfg.MaxSections,
	})
	engine := heuristics.New()

	// Initialize synthesis provider
	provider := buildProvider(cfg)
	synthClient := synthesis.NewClient(provider, synthesis.ClientConfig{
		TransportRetries: cfg.SynthesisTransportRetries,
		SchemaRetries:    cfg.SynthesisSchemaRetries,
	})

	// Initialize pipeline and worker pool
	pipeline := service.NewPipeline(
		jobStore,
		resultCache,
		claimStore,
		norm,
		engine,
		synthClient,
		cfg.MaxContentBytes,
	)

	pool := worker.NewPool(cfg.WorkerPoolSize, cfg.WorkerQueueSize)
	pool.Start()

	// Initialize services
	analysisService := service.NewAnalysisService(jobStore, resultCache, claimStore, pipeline, pool)
	feedbackService := service.NewFeedbackService(feedbackRepo)

	// Initialize claim janitor
	janitor := scheduler.NewJanitor(claimStore, cfg.JanitorSchedule, cfg.JanitorEnabled)
	if err := janitor.Start(ctx); err != nil {
		slog.Error("Failed to start janitor", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	analysisHandler := handler.NewAnalysisHandler(analysisService, cfg.JobTTL)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	healthHandler := handler.NewHealthHandler(rdb, db, version)

	// Create CORS config
	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}

	// Create router
	router := handler.NewRouter(
		analysisHandler,
		feedbackHandler,
		healthHandler,
		corsConfig,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop accepting HTTP traffic before draining the pool: a submission
	// accepted after the pool closes would be failed as queue-full
	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Stopping janitor...")
	janitor.Stop()

	slog.Info("Draining worker pool...")
	pool.Stop()

	slog.Info("Faultline Analysis Service stopped")
}

// buildProvider selects the synthesis backend. Without an API key the
// service falls back to the deterministic demo provider so it stays
// usable in local and CI environments.
func buildProvider(cfg *config.Config) synthesis.Provider {
	if cfg.SynthesisProvider == "demo" || cfg.OpenAIAPIKey == "" {
		slog.Info("Using demo synthesis provider")
		return synthesis.NewDemoProvider()
	}

	slog.Info("Using OpenAI synthesis provider", "model", cfg.OpenAIModel)
	return synthesis.NewOpenAIProvider(synthesis.OpenAIConfig{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		MaxTokens:   cfg.SynthesisMaxTokens,
		Temperature: cfg.SynthesisTemperature,
		Timeout:     cfg.SynthesisTimeout,
	})
}
