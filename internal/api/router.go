package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hugh/ritum/internal/ai"
	"github.com/hugh/ritum/internal/api/handlers"
	"github.com/hugh/ritum/internal/api/middleware"
	"github.com/hugh/ritum/internal/auth"
	"github.com/hugh/ritum/internal/caselaw"
	"github.com/hugh/ritum/internal/documents"
	"github.com/hugh/ritum/internal/jurisprudence"
	"github.com/hugh/ritum/internal/kanban"
	"github.com/hugh/ritum/pkg/crypto"
)

const generateTimeout = 60 * time.Second

type Router struct {
	chi.Router
	limiters []*middleware.RateLimiter
}

type RouterConfig struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Logger        *slog.Logger
	Env           string
	JWTService    *auth.JWTService
	AuthService   *auth.Service
	Encryptor     *crypto.Encryptor
	Jurisprudence *jurisprudence.Service
	CaseLaw       caselaw.Searcher
	AI            ai.Generator
	Documents     *documents.Generator
	DocumentsDir  string // served under documents.PublicPrefix when set
	Registry      *prometheus.Registry

	AllowedOrigins []string
	RateLimitReqs  int // 0 disables rate limiting
	RateLimitSecs  int
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()
	router := &Router{Router: r}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Global middleware
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewMetrics(registry).Handler)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	perUser := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimitReqs > 0 {
		global := middleware.NewRateLimiter(cfg.RateLimitReqs, cfg.RateLimitSecs)
		users := middleware.NewRateLimiter(cfg.RateLimitReqs, cfg.RateLimitSecs)
		router.limiters = append(router.limiters, global, users)

		r.Use(global.Middleware(middleware.ByIP))
		perUser = users.Middleware(middleware.ByUser)
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis, cfg.Env)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Logger)
	clientHandler := handlers.NewClientHandler(cfg.DB, cfg.Logger)
	processHandler := handlers.NewProcessHandler(cfg.DB, cfg.Logger)
	kanbanHandler := handlers.NewKanbanHandler(kanban.NewService(cfg.DB), cfg.Logger)
	caseHandler := handlers.NewExtrajudicialHandler(cfg.DB, cfg.Encryptor, cfg.Logger)
	intimationHandler := handlers.NewIntimationHandler(cfg.DB, cfg.Logger)
	jurisprudenceHandler := handlers.NewJurisprudenceHandler(cfg.Jurisprudence, cfg.CaseLaw, cfg.Logger)
	aiHandler := handlers.NewAIHandler(cfg.AI, cfg.Logger)
	documentHandler := handlers.NewDocumentHandler(cfg.Documents, cfg.Logger)

	requireAuth := middleware.Auth(cfg.JWTService, cfg.AuthService)

	// Public endpoints
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Post("/token", authHandler.Token)
	r.Post("/token/refresh", authHandler.Refresh)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", authHandler.Signup)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandler.Me)
			r.Patch("/me", authHandler.UpdateMe)
			r.Patch("/me/password", authHandler.UpdatePassword)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/processes", func(r chi.Router) {
			r.Get("/", processHandler.List)
			r.Post("/", processHandler.Create)
			r.Get("/{id}", processHandler.Get)
			r.Patch("/{id}", processHandler.Update)
			r.Delete("/{id}", processHandler.Delete)
			r.Get("/{id}/updates", processHandler.ListUpdates)
			r.Post("/{id}/updates", processHandler.AddUpdate)
			r.Get("/{id}/updates/", processHandler.ListUpdates)
			r.Post("/{id}/updates/", processHandler.AddUpdate)
		})

		r.Route("/board", func(r chi.Router) {
			r.Get("/", kanbanHandler.Board)
		})

		r.Route("/columns", func(r chi.Router) {
			r.Post("/", kanbanHandler.CreateColumn)
			r.Patch("/{id}", kanbanHandler.UpdateColumn)
			r.Delete("/{id}", kanbanHandler.DeleteColumn)
			r.Post("/{id}/cards", kanbanHandler.CreateCard)
			r.Post("/{id}/cards/", kanbanHandler.CreateCard)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Patch("/{id}", kanbanHandler.UpdateCard)
			r.Patch("/{id}/move", kanbanHandler.MoveCard)
			r.Delete("/{id}", kanbanHandler.DeleteCard)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(perUser)
			r.Post("/generate-prompt", aiHandler.GeneratePrompt)
			r.Post("/generate-petition", aiHandler.GeneratePetition)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", clientHandler.List)
			r.Post("/", clientHandler.Create)
			r.Get("/{id}", clientHandler.Get)
			r.Put("/{id}", clientHandler.Update)
			r.Delete("/{id}", clientHandler.Delete)
		})

		r.Route("/extrajudicial-cases", func(r chi.Router) {
			r.Get("/", caseHandler.List)
			r.Post("/", caseHandler.Create)
			r.Get("/{id}", caseHandler.Get)
			r.Put("/{id}", caseHandler.Update)
			r.Delete("/{id}", caseHandler.Delete)
		})

		r.Route("/intimations", func(r chi.Router) {
			r.Get("/", intimationHandler.List)
			r.Post("/", intimationHandler.Create)
			r.Get("/stats", intimationHandler.Stats)
			r.Get("/{id}", intimationHandler.Get)
			r.Delete("/{id}", intimationHandler.Delete)
		})

		r.Route("/jurisprudence", func(r chi.Router) {
			r.Get("/documents", jurisprudenceHandler.Documents)
			r.With(perUser).Post("/search", jurisprudenceHandler.SearchCaseLaw)
		})

		r.Get("/document-templates", documentHandler.Templates)
		r.With(middleware.Deadline(generateTimeout)).Post("/documents/generate", documentHandler.Generate)
	})

	// Locally stored documents
	if cfg.DocumentsDir != "" {
		fileServer := http.FileServer(http.Dir(cfg.DocumentsDir))
		r.Handle(documents.PublicPrefix+"/*", http.StripPrefix(documents.PublicPrefix+"/", fileServer))
	}

	return router
}

// Close stops the rate limiter janitors.
func (r *Router) Close() {
	for _, l := range r.limiters {
		l.Stop()
	}
}
