package telemetry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func setupTestMeter(t *testing.T) (*telemetry.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	original := otel.GetMeterProvider()
	reader := sdkmetric.NewManualReader()
	mp, err := telemetry.NewMeterProviderWithReader(telemetry.Config{ServiceName: "billing-test"}, reader, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
		otel.SetMeterProvider(original)
	})
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func attrValue(set attribute.Set, key attribute.Key) string {
	v, _ := set.Value(key)
	return v.Emit()
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	tests := []telemetry.Config{
		{Enabled: false, MetricsEnabled: true},
		{Enabled: true, MetricsEnabled: false},
	}

	for _, cfg := range tests {
		t.Run(fmt.Sprintf("enabled=%v metrics=%v", cfg.Enabled, cfg.MetricsEnabled), func(t *testing.T) {
			mp, err := telemetry.NewMeterProvider(context.Background(), cfg, zap.NewNop())
			require.NoError(t, err)

			assert.False(t, mp.IsEnabled())
			assert.NotNil(t, mp.Meter("test"))
			assert.NoError(t, mp.ForceFlush(context.Background()))
			assert.NoError(t, mp.Shutdown(context.Background()))
		})
	}
}

func TestNilMeterProvider(t *testing.T) {
	var mp *telemetry.MeterProvider

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
}

func TestCounterAndHistogram(t *testing.T) {
	mp, reader := setupTestMeter(t)
	assert.True(t, mp.IsEnabled())
	meter := mp.Meter("test")

	counter, err := telemetry.NewCounter(meter, "test_total", "test counter", "{call}")
	require.NoError(t, err)
	histogram, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:       "test_duration_seconds",
		Unit:       "s",
		Boundaries: telemetry.HTTPDurationBuckets,
	})
	require.NoError(t, err)

	ctx := context.Background()
	counter.Inc(ctx, telemetry.AttrOperation.String("a"))
	counter.Inc(ctx, telemetry.AttrOperation.String("a"))
	histogram.RecordDuration(ctx, 20*time.Millisecond)

	rm := collect(t, reader)

	sum, ok := findMetric(rm, "test_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)

	hist, ok := findMetric(rm, "test_duration_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.InDelta(t, 0.02, hist.DataPoints[0].Sum, 0.0001)
	assert.Equal(t, telemetry.HTTPDurationBuckets, hist.DataPoints[0].Bounds)
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, telemetry.OutcomeSuccess},
		{"validation", shared.FieldError("name", shared.MsgRequired), telemetry.OutcomeValidationError},
		{"not found", shared.ErrNotFound, telemetry.OutcomeNotFound},
		{"wrapped not found", fmt.Errorf("update: %w", shared.ErrNotFound), telemetry.OutcomeNotFound},
		{"other", errors.New("connection reset"), telemetry.OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, telemetry.Outcome(tt.err))
		})
	}
}

func TestProductMetrics_Record(t *testing.T) {
	mp, reader := setupTestMeter(t)
	m, err := telemetry.NewProductMetrics(mp.Meter("billing.catalog"))
	require.NoError(t, err)

	ctx := context.Background()
	m.Record(ctx, "create", nil)
	m.Record(ctx, "create", nil)
	m.Record(ctx, "create", shared.FieldError("name", shared.MsgRequired))
	m.Record(ctx, "delete", shared.ErrNotFound)

	sum, ok := findMetric(collect(t, reader), "billing_product_operations_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)

	got := map[string]int64{}
	for _, dp := range sum.DataPoints {
		got[attrValue(dp.Attributes, telemetry.AttrOperation)+"/"+attrValue(dp.Attributes, telemetry.AttrOutcome)] = dp.Value
	}
	assert.Equal(t, map[string]int64{
		"create/success":          2,
		"create/validation_error": 1,
		"delete/not_found":        1,
	}, got)
}

func TestProductMetrics_NilRecordsNothing(t *testing.T) {
	var m *telemetry.ProductMetrics
	assert.NotPanics(t, func() { m.Record(context.Background(), "create", nil) })
}

func TestRegisterDBPoolMetrics(t *testing.T) {
	mp, reader := setupTestMeter(t)

	stats := telemetry.PoolStats{MaxOpenConnections: 25, OpenConnections: 4, InUse: 3, Idle: 1, WaitCount: 7}
	reg, err := telemetry.RegisterDBPoolMetrics(mp.Meter("billing.db"), "sqlite", func() (telemetry.PoolStats, error) {
		return stats, nil
	}, zap.NewNop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, reg.Unregister()) }()

	rm := collect(t, reader)

	connections, ok := findMetric(rm, "db_pool_connections").Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	byState := map[string]int64{}
	for _, dp := range connections.DataPoints {
		assert.Equal(t, "sqlite", attrValue(dp.Attributes, telemetry.AttrDBSystem))
		byState[attrValue(dp.Attributes, telemetry.AttrDBPoolState)] = dp.Value
	}
	assert.Equal(t, map[string]int64{"in_use": 3, "idle": 1}, byState)

	maxConns, ok := findMetric(rm, "db_pool_connections_max").Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, maxConns.DataPoints, 1)
	assert.Equal(t, int64(25), maxConns.DataPoints[0].Value)

	waits, ok := findMetric(rm, "db_pool_wait_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, waits.DataPoints, 1)
	assert.Equal(t, int64(7), waits.DataPoints[0].Value)
}

func TestRegisterDBPoolMetrics_StatsError(t *testing.T) {
	mp, reader := setupTestMeter(t)

	reg, err := telemetry.RegisterDBPoolMetrics(mp.Meter("billing.db"), "postgres", func() (telemetry.PoolStats, error) {
		return telemetry.PoolStats{}, errors.New("pool closed")
	}, zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = reg.Unregister() }()

	rm := collect(t, reader)
	assert.Nil(t, findMetric(rm, "db_pool_connections"))
}
