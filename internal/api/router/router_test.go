package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chatops-lab/sparkrelay/internal/bot"
	"github.com/chatops-lab/sparkrelay/internal/session"
	"github.com/chatops-lab/sparkrelay/internal/spark"
	"github.com/chatops-lab/sparkrelay/pkg/logging"
)

type denyAllSender struct{}

func (denyAllSender) Send(context.Context, string, string, []string) error { return nil }

type noFetch struct{}

func (noFetch) GetMessage(context.Context, string) (*spark.Message, error) {
	return &spark.Message{}, nil
}

func newTestHandler() *bot.Handler {
	controller := bot.NewController(bot.ControllerConfig{
		Policy:     bot.NewPolicy(nil, "sparkbot.io"),
		Normalizer: bot.NewNormalizer(),
		Sessions:   session.NewStore(),
		Gateway:    bot.NewGateway(nil, logging.Default(), nil),
		Dispatcher: denyAllSender{},
		Fetcher:    noFetch{},
		Logger:     logging.Default(),
	})
	return bot.NewHandler(controller, logging.Default(), false)
}

func TestRouterRoutes(t *testing.T) {
	handler := New(&Config{
		Logger:         logging.Default(),
		BotHandler:     newTestHandler(),
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
		RequestTimeout: 5 * time.Second,
	})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"webhook", http.MethodPost, "/webhook", `{"resource":"rooms"}`, http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
		{"webhook wrong method", http.MethodGet, "/webhook", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
			}
		})
	}
}

func TestRouterWithoutMetrics(t *testing.T) {
	handler := New(&Config{BotHandler: newTestHandler()})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a metrics handler, got %d", rec.Code)
	}
}
