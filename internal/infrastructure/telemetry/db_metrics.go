package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// PoolStats is a snapshot of a SQL connection pool
type PoolStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
}

// PoolStatsFunc reads the current pool snapshot
type PoolStatsFunc func() (PoolStats, error)

// RegisterDBPoolMetrics observes the pool on every collection:
// db_pool_connections by state, db_pool_connections_max and
// db_pool_wait_total. Unregister the returned registration when the pool
// is closed.
func RegisterDBPoolMetrics(meter metric.Meter, dbSystem string, stats PoolStatsFunc, logger *zap.Logger) (metric.Registration, error) {
	connections, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Number of connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge db_pool_connections: %w", err)
	}
	maxConnections, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum number of open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge db_pool_connections_max: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Total number of waits for a free connection"),
		metric.WithUnit("{wait}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter db_pool_wait_total: %w", err)
	}

	system := AttrDBSystem.String(dbSystem)
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s, err := stats()
		if err != nil {
			logger.Warn("Failed to read connection pool stats", zap.Error(err))
			return nil
		}
		o.ObserveInt64(connections, int64(s.InUse), metric.WithAttributes(system, AttrDBPoolState.String("in_use")))
		o.ObserveInt64(connections, int64(s.Idle), metric.WithAttributes(system, AttrDBPoolState.String("idle")))
		o.ObserveInt64(maxConnections, int64(s.MaxOpenConnections), metric.WithAttributes(system))
		o.ObserveInt64(waits, s.WaitCount, metric.WithAttributes(system))
		return nil
	}, connections, maxConnections, waits)
}
