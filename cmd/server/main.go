// AI Interview Agent - completion-processing backend
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/voxhire/interview-agent/internal/api"
	"github.com/voxhire/interview-agent/internal/config"
	"github.com/voxhire/interview-agent/internal/evaluation"
	"github.com/voxhire/interview-agent/internal/middleware"
	"github.com/voxhire/interview-agent/internal/notify"
	"github.com/voxhire/interview-agent/internal/pipeline"
	"github.com/voxhire/interview-agent/internal/store"
	"github.com/voxhire/interview-agent/internal/voice"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "mode", cfg.Mode)

	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	// Collaborators are chosen once from the configured mode and injected;
	// nothing downstream consults the environment.
	var (
		voiceClient voice.Client
		evaluator   evaluation.Evaluator
		notifier    notify.Notifier
	)
	if cfg.IsDemo() {
		slog.Info("Running in DEMO MODE, using simulated services")
		voiceClient = voice.NewDemoClient()
		evaluator = evaluation.NewHeuristicEvaluator()
		notifier = notify.NewLogNotifier()
	} else {
		slog.Info("Running in PRODUCTION MODE, using real APIs")
		voiceClient = voice.NewVapiClient(cfg.Vapi.BaseURL, cfg.Vapi.APIKey, cfg.Vapi.PhoneNumberID)
		evaluator, err = evaluation.NewGeminiEvaluator(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Models)
		if err != nil {
			slog.Error("Failed to initialize evaluator", "error", err)
			os.Exit(1)
		}
		notifier = notify.NewSlackNotifier(cfg.Slack.BotToken, cfg.Slack.Channel)
	}

	completionPipeline := pipeline.New(
		voiceClient, evaluator, repo, notifier,
		cfg.TranscriptURL, cfg.Pipeline.RunTimeout,
	)
	pool := pipeline.NewPool(
		completionPipeline.ProcessCompletedCall,
		cfg.Pipeline.Workers, cfg.Pipeline.QueueSize,
	)

	handler := api.NewHandler(repo, voiceClient, pool, cfg)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))

	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool.Start(ctx)

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	pool.Wait()

	slog.Info("Server stopped successfully")
}
