package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chatops-lab/sparkrelay/internal/api/router"
	"github.com/chatops-lab/sparkrelay/internal/app/bootstrap"
	"github.com/chatops-lab/sparkrelay/internal/bot"
	appconfig "github.com/chatops-lab/sparkrelay/internal/config"
	"github.com/chatops-lab/sparkrelay/internal/nlu"
	"github.com/chatops-lab/sparkrelay/internal/observability/metrics"
	"github.com/chatops-lab/sparkrelay/internal/session"
	"github.com/chatops-lab/sparkrelay/internal/spark"
	"github.com/chatops-lab/sparkrelay/pkg/logging"
)

func main() {
	// Load .env when present; deployed environments set real variables.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	var logger *logging.Logger
	if cfg.Development() {
		logger = logging.NewText(cfg.LogLevel)
	} else {
		logger = logging.New(cfg.LogLevel)
	}
	logger.Info("starting sparkrelay",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	sparkClient, err := spark.New(spark.Config{
		BaseURL: cfg.SparkBaseURL,
		Token:   cfg.SparkToken,
		Logger:  logger.Logger,
	})
	if err != nil {
		logger.Error("failed to build spark client", "error", err)
		os.Exit(1)
	}

	nluClient, err := nlu.New(nlu.Config{
		BaseURL:     cfg.NluBaseURL,
		AccessToken: cfg.NluAccessToken,
		Lang:        cfg.NluLang,
		Logger:      logger.Logger,
	})
	if err != nil {
		logger.Error("failed to build nlu client", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	botMetrics := metrics.NewBotMetrics(registry)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer bootCancel()

	tracker := bootstrap.BuildProcessedTracker(bootCtx, cfg, logger)

	normalizer := bot.NewNormalizer()
	if me, err := sparkClient.Me(bootCtx); err != nil {
		// The bot still answers without its identity; mentions just reach
		// the NLU backend verbatim.
		logger.Warn("failed to load bot profile", "error", err)
	} else {
		normalizer.SetIdentity(me.DisplayName)
		full, short := normalizer.Identity()
		logger.Info("bot identity loaded", "full_name", full, "short_name", short)
	}

	if cfg.PublicWebhookURL != "" {
		if err := sparkClient.EnsureWebhook(bootCtx, cfg.PublicWebhookURL); err != nil {
			logger.Warn("webhook registration failed", "target_url", cfg.PublicWebhookURL, "error", err)
		}
	}

	controller := bot.NewController(bot.ControllerConfig{
		Policy:     bot.NewPolicy(cfg.AllowedEmails, cfg.SparkBotDomain),
		Normalizer: normalizer,
		Sessions:   session.NewStore(),
		Gateway:    bot.NewGateway(nluClient, logger, botMetrics),
		Dispatcher: bot.NewDispatcher(sparkClient, logger, botMetrics),
		Fetcher:    sparkClient,
		Processed:  tracker,
		Logger:     logger,
		Metrics:    botMetrics,
	})
	handler := bot.NewHandler(controller, logger, cfg.Development())

	r := router.New(&router.Config{
		Logger:         logger,
		BotHandler:     handler,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Let in-flight replies finish before the process exits.
	controller.Drain()
	logger.Info("server stopped")
}
