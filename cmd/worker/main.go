package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/hugh/ritum/internal/database"
	"github.com/hugh/ritum/internal/jurisprudence"
	"github.com/hugh/ritum/internal/tasks"
	"github.com/hugh/ritum/pkg/config"
	"github.com/hugh/ritum/pkg/queue"
	"github.com/hugh/ritum/pkg/util"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env, cfg.Log.File)
	slog.SetDefault(logger)

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	})); err != nil {
		logger.Warn("failed to set GOMAXPROCS", "error", err)
	}

	logger.Info("starting Ritum worker")

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var index *jurisprudence.MeiliIndex
	if cfg.Search.MeiliURL != "" {
		index = jurisprudence.NewMeiliIndex(cfg.Search.MeiliURL, cfg.Search.MeiliAPIKey, logger)
		defer index.Close()
	} else {
		logger.Warn("MEILI_URL not set, reindex tasks are no-ops")
	}
	service := jurisprudence.NewService(jurisprudence.NewStore(db), index, logger)

	var documentsDir string
	if cfg.Documents.Storage == "local" {
		documentsDir = cfg.Documents.Dir
	}

	// Create Asynq server
	srv := queue.NewServer(&cfg.Redis, 4)

	// Create task handler
	handler := tasks.NewHandler(service, documentsDir, cfg.Documents.Retention(), logger)

	// Register handlers
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Register periodic tasks
	scheduler := queue.NewScheduler(&cfg.Redis)
	if _, err := scheduler.Register(cfg.Jurisprudence.ReindexCron, tasks.NewJurisprudenceReindexTask()); err != nil {
		logger.Error("failed to schedule reindex", "cron", cfg.Jurisprudence.ReindexCron, "error", err)
		os.Exit(1)
	}
	cleanup, err := tasks.NewDocumentsCleanupTask(tasks.DocumentsCleanupPayload{})
	if err != nil {
		logger.Error("failed to build cleanup task", "error", err)
		os.Exit(1)
	}
	if _, err := scheduler.Register(tasks.CleanupSchedule, cleanup); err != nil {
		logger.Error("failed to schedule cleanup", "cron", tasks.CleanupSchedule, "error", err)
		os.Exit(1)
	}
	if err := scheduler.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	// Handle shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		scheduler.Shutdown()
		srv.Shutdown()
		cancel()
	}()

	nextReindex, _ := util.NextCronTime(cfg.Jurisprudence.ReindexCron, time.Now())
	nextCleanup, _ := util.NextCronTime(tasks.CleanupSchedule, time.Now())
	logger.Info("worker started, waiting for tasks...",
		"next_reindex", nextReindex,
		"next_cleanup", nextCleanup,
	)

	// Start the server
	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	// Wait for context cancellation
	<-ctx.Done()

	// Close database connection
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("worker stopped")
}
