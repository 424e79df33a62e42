package app

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

	"github.com/armenabnousi/NewsCollector/internal/config"
	"github.com/armenabnousi/NewsCollector/internal/infrastructure/fetch"
	"github.com/armenabnousi/NewsCollector/internal/infrastructure/openrouter"
	"github.com/armenabnousi/NewsCollector/internal/infrastructure/scheduler"
	"github.com/armenabnousi/NewsCollector/internal/infrastructure/settings"
	"github.com/armenabnousi/NewsCollector/internal/logging"
	httpserver "github.com/armenabnousi/NewsCollector/internal/transport/http"
	"github.com/armenabnousi/NewsCollector/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg          config.Config
	logger       *slog.Logger
	store        *settings.Store
	orchestrator *usecase.Orchestrator
	scheduler    *scheduler.TickerScheduler
	server       *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := settings.Open(cfg.Settings.Path)
	if err != nil {
		return nil, fmt.Errorf("open settings store: %w", err)
	}

	if err := seedToken(store, cfg.OpenRouter.Token); err != nil {
		_ = store.Close()
		return nil, err
	}

	chat := openrouter.New(cfg.OpenRouter.BaseURL, store.Token, nil)
	fetcher := fetch.NewTextFetcher(nil, baseLogger.With("component", "fetcher"))

	extractor := usecase.NewExtractor(chat, baseLogger.With("component", "extractor"))
	processor := usecase.NewSourceProcessor(fetcher, extractor, baseLogger.With("component", "source"))
	aggregator := usecase.NewAggregator(processor, baseLogger.With("component", "aggregator"))
	unifier := usecase.NewUnifier(chat, baseLogger.With("component", "unifier"))
	orchestrator := usecase.NewOrchestrator(store, aggregator, unifier, baseLogger.With("component", "pipeline"))

	handler := httpserver.NewHandler(baseLogger.With("component", "http"), orchestrator, store, chat)
	router := httpserver.NewServer(baseLogger, handler)

	return &Application{
		cfg:          cfg,
		logger:       baseLogger,
		store:        store,
		orchestrator: orchestrator,
		scheduler:    scheduler.NewTickerScheduler(cfg.Refresh.IntervalDuration()),
		server: &http.Server{
			Addr:    cfg.Server.Address,
			Handler: router,
		},
	}, nil
}

// Run starts the periodic refresh job and the HTTP server, then blocks
// until a shutdown signal arrives or the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	job := func(time.Time) {
		if err := a.orchestrator.StartRefresh(ctx); err != nil {
			// Missing model or credential until the user configures them.
			a.logger.Info("scheduled refresh skipped", "reason", err)
		}
	}
	if err := a.scheduler.Start(ctx, job); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", "component", "server", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		a.logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serveErr:
		a.logger.Error("HTTP server failed", "error", err)
		return a.shutdown(err)
	case <-ctx.Done():
		a.logger.Info("context cancelled, shutting down")
	}

	return a.shutdown(nil)
}

func (a *Application) shutdown(cause error) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = a.scheduler.Stop(shutdownCtx)

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", "error", err)
	}

	if err := a.store.Close(); err != nil {
		a.logger.Error("settings store close failed", "error", err)
	}

	a.logger.Info("application stopped")
	return cause
}

// seedToken copies a bootstrap credential from the environment/config into
// the settings store, but never overwrites one the user already saved.
func seedToken(store *settings.Store, token string) error {
	if token == "" {
		return nil
	}

	existing, err := store.Token(context.Background())
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}
	if existing != "" {
		return nil
	}

	if err := store.SaveToken(context.Background(), token); err != nil {
		return fmt.Errorf("seed token: %w", err)
	}
	return nil
}
