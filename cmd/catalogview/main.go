package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/catalogview/internal/app"
	"github.com/odyssey-erp/catalogview/internal/catalog"
	cataloghttp "github.com/odyssey-erp/catalogview/internal/catalog/http"
	"github.com/odyssey-erp/catalogview/internal/observability"
	"github.com/odyssey-erp/catalogview/internal/platform/cache"
	"github.com/odyssey-erp/catalogview/internal/shared"
	"github.com/odyssey-erp/catalogview/internal/theme"
	"github.com/odyssey-erp/catalogview/internal/view"
	"github.com/odyssey-erp/catalogview/jobs"
	"github.com/odyssey-erp/catalogview/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "catalogview_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	themes := theme.NewStore(cfg.DefaultTheme())

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	catalogService := catalog.NewService(
		catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout),
		catalog.NewCache(redisClient, cfg.CatalogCacheTTL),
		logger,
		catalog.NewMetrics(metrics.Registerer()),
	)
	catalogService.Start(ctx)

	reportClient := report.NewClient(cfg.GotenbergURL, 30*time.Second)
	catalogHandler := cataloghttp.NewHandler(logger, catalogService, templates, csrfManager, themes, reportClient, cfg.TableOptions())

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		Themes:         themes,
		CatalogHandler: catalogHandler,
		ReportHandler:  report.NewHandler(reportClient, logger),
		JobHandler:     jobs.NewHandler(inspector, logger),
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
