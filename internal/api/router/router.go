package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chatops-lab/sparkrelay/internal/bot"
	httpmiddleware "github.com/chatops-lab/sparkrelay/internal/http/middleware"
	"github.com/chatops-lab/sparkrelay/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	BotHandler     *bot.Handler
	MetricsHandler http.Handler
	RequestTimeout time.Duration
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.BotHandler.HealthCheck)
	r.Post("/webhook", cfg.BotHandler.Webhook)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
