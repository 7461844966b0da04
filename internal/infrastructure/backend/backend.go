// Package backend opens the repository set of the configured store.
package backend

import (
	"context"
	"fmt"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/trade"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/billing/backend/internal/infrastructure/mongostore"
	"github.com/billing/backend/internal/infrastructure/persistence"
	"github.com/billing/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Store is a backing store that can report its liveness
type Store interface {
	Ping(ctx context.Context) error
	Name() string
}

// Backend is the repository set of the configured store.
// PoolStats is set for the SQL drivers only.
type Backend struct {
	Products  catalog.ProductRepository
	Orders    trade.OrderRepository
	Store     Store
	PoolStats telemetry.PoolStatsFunc
	close     func(ctx context.Context) error
}

// Close releases the store connection
func (b *Backend) Close(ctx context.Context) error {
	return b.close(ctx)
}

// Open connects the store selected by database.driver and prepares its
// schema: indexes for mongodb, AutoMigrate for the SQL drivers.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backend, error) {
	if cfg.Database.IsSQL() {
		return openSQL(ctx, cfg, log)
	}
	return openMongo(ctx, cfg, log)
}

func openMongo(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backend, error) {
	store, err := mongostore.Connect(ctx, &cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return &Backend{
		Products: store.Products(),
		Orders:   store.Orders(),
		Store:    store,
		close:    store.Close,
	}, nil
}

func openSQL(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Backend, error) {
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		return nil, err
	}

	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:  cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem: dbSystem,
	}, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to register database tracing: %w", err)
	}

	// sqlite databases are local files or in-memory and always migrated
	if cfg.Database.AutoMigrate || cfg.Database.Driver == config.DriverSQLite {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("Database schema migrated", zap.String("driver", cfg.Database.Driver))
	}

	return &Backend{
		Products:  persistence.NewGormProductRepository(db.DB),
		Orders:    persistence.NewGormOrderRepository(db.DB),
		Store:     db,
		PoolStats: db.Stats,
		close: func(context.Context) error {
			return db.Close()
		},
	}, nil
}
