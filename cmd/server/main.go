package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/hugh/ritum/internal/ai"
	"github.com/hugh/ritum/internal/api"
	"github.com/hugh/ritum/internal/auth"
	"github.com/hugh/ritum/internal/caselaw"
	"github.com/hugh/ritum/internal/database"
	"github.com/hugh/ritum/internal/documents"
	"github.com/hugh/ritum/internal/jurisprudence"
	"github.com/hugh/ritum/pkg/config"
	"github.com/hugh/ritum/pkg/crypto"
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

	logger.Info("starting Ritum server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
		"rate_limit", cfg.RateLimit.Enabled,
	)
	if cfg.Server.IsProduction() && cfg.Documents.Storage == "local" {
		logger.Warn("generated documents are stored on local disk", "dir", cfg.Documents.Dir)
	}

	ctx := context.Background()

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("failed to connect to Redis, case-law cache disabled", "error", err)
		redisClient.Close()
		redisClient = nil
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry(), cfg.JWT.RefreshExpiry())
	authService := auth.NewService(db, jwtService)

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		logger.Error("failed to create encryptor", "error", err)
		os.Exit(1)
	}
	logger.Debug("extrajudicial data sealed at rest", "recipient", encryptor.PublicKey())

	var index *jurisprudence.MeiliIndex
	if cfg.Search.MeiliURL != "" {
		index = jurisprudence.NewMeiliIndex(cfg.Search.MeiliURL, cfg.Search.MeiliAPIKey, logger)
		defer index.Close()
	}
	jurisprudenceService := jurisprudence.NewService(jurisprudence.NewStore(db), index, logger)

	var searcher caselaw.Searcher = caselaw.NewClient(cfg.CaseLaw)
	if redisClient != nil {
		searcher = caselaw.NewCachedSearcher(searcher, redisClient, cfg.CaseLaw.CacheTTL(), logger)
	}

	gemini, err := ai.NewGemini(ctx, cfg.AI)
	if err != nil {
		logger.Error("failed to create Gemini client", "error", err)
		os.Exit(1)
	}
	defer gemini.Close()
	if !gemini.Configured() {
		logger.Warn("GOOGLE_API_KEY not set, petition generation disabled")
	}

	store, err := documents.NewStore(ctx, cfg.Documents)
	if err != nil {
		logger.Error("failed to create document store", "error", err)
		os.Exit(1)
	}
	var documentsDir string
	if local, ok := store.(*documents.LocalStore); ok {
		documentsDir = local.Dir()
	}
	generator := documents.NewGenerator(
		documents.DefaultTemplates(),
		documents.NewRenderer(cfg.Documents.Format),
		store,
		logger,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rateLimitReqs := 0
	if cfg.RateLimit.Enabled {
		rateLimitReqs = cfg.RateLimit.Requests
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		Env:            cfg.Server.Env,
		JWTService:     jwtService,
		AuthService:    authService,
		Encryptor:      encryptor,
		Jurisprudence:  jurisprudenceService,
		CaseLaw:        searcher,
		AI:             gemini,
		Documents:      generator,
		DocumentsDir:   documentsDir,
		Registry:       registry,
		AllowedOrigins: cfg.CORS.Origins,
		RateLimitReqs:  rateLimitReqs,
		RateLimitSecs:  cfg.RateLimit.WindowSeconds,
	})
	defer router.Close()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if closer, ok := store.(interface{ Close() error }); ok {
		closer.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
