package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/strideleague/strideleague/internal/config"
	storedomain "github.com/strideleague/strideleague/internal/domain/store"
	"github.com/strideleague/strideleague/internal/infrastructure/jobqueue"
	"github.com/strideleague/strideleague/internal/infrastructure/repository/memory"
	postgresrepo "github.com/strideleague/strideleague/internal/infrastructure/repository/postgres"
	"github.com/strideleague/strideleague/internal/interfaces/httpapi"
	"github.com/strideleague/strideleague/internal/platform/cache"
	"github.com/strideleague/strideleague/internal/platform/logging"
	"github.com/strideleague/strideleague/internal/platform/resilience"
	"github.com/strideleague/strideleague/internal/usecase"
)

// App owns the composed engine, its HTTP server, and the background
// sweeper. Close releases everything New opened.
type App struct {
	Server  *http.Server
	Engine  *usecase.Engine
	Sweeper *usecase.SweeperService

	sweepInterval time.Duration
	closers       []func() error
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	app := &App{sweepInterval: cfg.SweepInterval}

	st, err := app.openStore(cfg)
	if err != nil {
		return nil, err
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	engine := usecase.NewEngine(usecase.EngineConfig{
		Store:  st,
		Cache:  cacheStore,
		Logger: logger,
	})
	app.Engine = engine

	sweeper, err := engine.NewSweeper(st, cfg.SweepWorkers, logger)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("create sweeper: %w", err)
	}
	app.Sweeper = sweeper
	app.closers = append(app.closers, func() error {
		sweeper.Close()
		return nil
	})

	if cfg.WebhookEnabled {
		breaker := resilience.NewCircuitBreakerFromConfig(resilience.CircuitBreakerConfig{
			Enabled:          cfg.WebhookCircuitEnabled,
			FailureThreshold: cfg.WebhookCircuitFailures,
			OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMax,
		})
		publisher, err := jobqueue.NewWebhookPublisher(jobqueue.WebhookPublisherConfig{
			Endpoint: cfg.WebhookEndpoint,
			Token:    cfg.WebhookToken,
			Timeout:  cfg.WebhookTimeout,
		}, breaker, logger)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		sweeper.SetEventPublisher(publisher)
	}

	handler := httpapi.NewHandler(engine, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	if cfg.HTTPAddr == "" {
		_ = app.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return app, nil
}

func (a *App) openStore(cfg config.Config) (storedomain.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return memory.NewStore(), nil
	case config.StorePostgres:
		db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, fmt.Errorf("open postgres connection: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		a.closers = append(a.closers, db.Close)
		return postgresrepo.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// RunSweeper blocks sweeping on the configured interval until ctx is
// cancelled.
func (a *App) RunSweeper(ctx context.Context) {
	a.Sweeper.Run(ctx, a.sweepInterval)
}

func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
