package cmd

import (
	"context"
	"fmt"

	"report-sync/core/cache"
	"report-sync/core/config"
	"report-sync/core/database"
	"report-sync/core/logger"
	"report-sync/core/metrics"
	"report-sync/core/remote/objectstore"
	"report-sync/core/storage"
	"report-sync/core/worker"
	"report-sync/feature/report"
	"report-sync/feature/report/local"
	"report-sync/feature/report/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// app is the wired set of components shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	store    *local.Store
	repo     *report.Repository
	pool     *worker.Pool
	vm       *report.ViewModel
}

// bootstrap loads configuration and wires the cache, the remote gateway and
// the repository. Callers must call close when done.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect cache database: %w", err)
	}
	if err := database.Migrate(ctx, db, models.Schema(), models.AfterVersions()...); err != nil {
		return nil, fmt.Errorf("migrate cache database: %w", err)
	}
	if err := models.Verify(db); err != nil {
		return nil, fmt.Errorf("verify cache schema: %w", err)
	}
	logg.Info("Cache database ready", zap.String("driver", cfg.Database.Driver), zap.String("name", cfg.Database.Name))

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", cfg.Storage.Bucket, err)
	}

	gateway := objectstore.New(client, cfg.Storage.Bucket, logg, objectstore.WithMetrics(m))
	driver := cache.NewDriver(db, logg, cache.WithMetrics(m))
	store := local.NewStore(driver, logg)
	repo := report.NewRepository(gateway, store, logg, report.WithMetrics(m))
	pool := worker.NewPool(cfg.Worker.Size, logg)

	return &app{
		cfg:      cfg,
		logger:   logg,
		registry: registry,
		store:    store,
		repo:     repo,
		pool:     pool,
		vm:       report.NewViewModel(repo, pool, logg),
	}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.pool.Shutdown(ctx); err != nil {
		a.logger.Warn("Worker pool did not drain", zap.Error(err))
	}
	_ = a.logger.Sync()
}
