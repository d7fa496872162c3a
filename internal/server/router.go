package server

import (
	"net/http"

	"github.com/cloo-solutions/supporthub/internal/api/handlers"
	"github.com/cloo-solutions/supporthub/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	ChatHandler      *handlers.ChatHandler
	TicketHandler    *handlers.TicketHandler
	DocumentHandler  *handlers.DocumentHandler
	SearchHandler    *handlers.SearchHandler
	AnalyticsHandler *handlers.AnalyticsHandler
	UploadHandler    *handlers.UploadHandler

	// Metrics serves /metrics when set.
	Metrics http.Handler
	// RateLimiter guards /chat and /ticket when set.
	RateLimiter *middleware.RateLimiter

	AllowedOrigins []string
	MaxBodyBytes   int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = 11 * 1024 * 1024
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/", handlers.Index)
	r.Get("/health", handlers.Health)

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Handler)
		}
		r.Post("/chat", cfg.ChatHandler.Chat)
		r.Post("/ticket", cfg.TicketHandler.Submit)
	})

	r.Post("/upload-document", cfg.UploadHandler.Upload)
	r.Post("/search", cfg.SearchHandler.Search)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", cfg.DocumentHandler.List)
		r.Post("/", cfg.DocumentHandler.Create)
		r.Get("/{id}", cfg.DocumentHandler.Get)
		r.Put("/{id}", cfg.DocumentHandler.Update)
	})

	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", cfg.TicketHandler.List)
		r.Get("/{id}", cfg.TicketHandler.Get)
	})

	r.Get("/analytics", cfg.AnalyticsHandler.Summary)

	return r
}
