package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/db"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/http"
	httpH "github.com/GyasiAmosKwadwo/elevation-church/internal/http/handlers"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/listing"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/observability"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/cache"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/envutil"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/logger"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/media"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Cache    cache.Cache
	Media    media.Store
	Metrics  *observability.Metrics

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// NewLogger builds the process logger from LOG_MODE and LOG_LEVEL.
func NewLogger() (*logger.Logger, error) {
	log, err := logger.NewWithOptions(logger.Options{
		Mode:      envutil.String("LOG_MODE", "development"),
		Level:     envutil.String("LOG_LEVEL", ""),
		Redaction: envutil.Bool("LOG_REDACT", true),
		HashSalt:  envutil.String("LOG_HASH_SALT", ""),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenDB connects and migrates the schema.
func OpenDB(log *logger.Logger, cfg db.Config) (*db.PostgresService, error) {
	pg, err := db.NewPostgresService(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	return pg, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	metrics := observability.Init(log)

	listingCfg, err := listing.Load(cfg.ListingPath)
	if err != nil {
		return nil, fmt.Errorf("load listing config: %w", err)
	}

	pg, err := OpenDB(log, cfg.DB)
	if err != nil {
		return nil, err
	}
	theDB := pg.DB()

	respCache, err := cache.New(ctx, cfg.Cache, log)
	if err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("init cache: %w", err)
	}

	store, err := resolveMediaStore(ctx, log, cfg.Media, metrics)
	if err != nil {
		_ = respCache.Close()
		_ = pg.Close()
		return nil, err
	}

	reposet := wireRepos(theDB, log, listingCfg)
	serviceset, err := wireServices(theDB, log, cfg, reposet, store, respCache)
	if err != nil {
		_ = respCache.Close()
		_ = pg.Close()
		return nil, err
	}

	handlerset := wireHandlers(log, cfg, serviceset, metrics,
		httpH.Dependency{Name: "database", Ping: pg.Ping},
		httpH.Dependency{Name: "cache", Ping: respCache.Ping},
	)
	mw := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, handlerset, mw, respCache, metrics, store)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       &http.Server{Engine: router},
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Cache:        respCache,
		Media:        store,
		Metrics:      metrics,
		pg:           pg,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background collectors.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
		if a.Cache.Enabled() {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Cache)
		}
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr)
		errCh <- a.Server.Run(a.Cfg.Addr)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.Log.Info("Shutting down HTTP server...")
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
