package backend

import (
	"context"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			Path:         ":memory:",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
	}
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, sqliteConfig(), zap.NewNop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, b.Close(ctx)) }()

	assert.Equal(t, config.DriverSQLite, b.Store.Name())
	assert.NoError(t, b.Store.Ping(ctx))

	products, err := b.Products.FindAll(ctx, catalog.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)

	orders, err := b.Orders.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	require.NotNil(t, b.PoolStats)
	stats, err := b.PoolStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestOpen_InvalidMongoURI(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Driver:         config.DriverMongoDB,
			URI:            "not-a-mongo-uri",
			Name:           "billing",
			MaxOpenConns:   1,
			ConnectTimeout: time.Second,
		},
	}

	_, err := Open(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongodb")
}
