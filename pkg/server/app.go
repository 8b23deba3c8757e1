package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "HyperMaker/internal/domain/repository"
	"HyperMaker/internal/usecase"
	"HyperMaker/pkg/cache"
	"HyperMaker/pkg/config"
	xhttp "HyperMaker/pkg/http"
	applogger "HyperMaker/pkg/logger"
)

// App encapsulates one maker run: the optional metrics server, the
// quoting cycle or close-only pass, and teardown of shared clients.
type App struct {
	cfg       *config.Config
	maker     *usecase.MarketMaker
	flattener *usecase.Flattener
	events    drepo.OrderEventPublisher
	cache     cache.Service
	logger    *applogger.Logger

	metricsServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	maker *usecase.MarketMaker,
	flattener *usecase.Flattener,
	events drepo.OrderEventPublisher,
	cacheSvc cache.Service,
	l *applogger.Logger,
) *App {
	return &App{
		cfg:       cfg,
		maker:     maker,
		flattener: flattener,
		events:    events,
		cache:     cacheSvc,
		logger:    l,
	}
}

// Run executes one pass and returns when it finishes. An interrupt or
// SIGTERM cancels the context so in-flight calls unwind promptly.
// closeOnly flattens every open position instead of quoting.
func (a *App) Run(closeOnly bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.Metrics.Enabled {
		a.metricsServer = xhttp.NewServer(a.logger,
			xhttp.WithHost(a.cfg.Metrics.Host),
			xhttp.WithPort(a.cfg.Metrics.Port),
		)
		if err := a.metricsServer.Start(); err != nil {
			return err
		}
	}
	defer a.shutdown()

	if closeOnly {
		orders, err := a.flattener.CloseAll(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("close pass finished", applogger.Int("orders", len(orders)))
		return nil
	}

	summary, err := a.maker.RunCycle(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("run finished",
		applogger.String("cycle_id", summary.CycleID),
		applogger.Int("placed", summary.PlacedOrders),
		applogger.Int("skipped", summary.SkippedOrders),
		applogger.Bool("dry_run", summary.DryRun))
	return nil
}

// shutdown stops the metrics server and closes shared clients.
func (a *App) shutdown() {
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Stop(ctx); err != nil {
			a.logger.Warn("metrics server stop error", applogger.Error(err))
		}
	}
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("event publisher close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}
	a.logger.Info("shutdown complete")
}
