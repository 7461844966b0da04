package telemetry_test

import (
	"context"
	"testing"

	"github.com/billing/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := setupTestDB(t)
	core, recorded := observer.New(zapcore.DebugLevel)

	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{Enabled: false}, zap.New(core)))

	assert.Equal(t, 1, recorded.FilterMessage("Database tracing disabled, skipping otelgorm registration").Len())
	assert.Nil(t, db.Callback().Query().Get("billing_trace:query"))
}

func TestRegisterDBTracing_Enabled(t *testing.T) {
	sr := setupTestTracer(t)
	db := setupTestDB(t)

	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{
		Enabled:  true,
		DBSystem: "sqlite",
	}, zap.NewNop()))
	assert.NotNil(t, db.Callback().Query().Get("billing_trace:query"))

	ctx, parent := telemetry.StartServiceSpan(context.Background(), "product", "create")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "Widget"}).Error)
	parent.End()

	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	assert.Contains(t, names, "product.create")
	assert.Greater(t, len(names), 1)
}

func TestRegisterDBTracing_MarksFailures(t *testing.T) {
	sr := setupTestTracer(t)
	db := setupTestDB(t)
	require.NoError(t, telemetry.RegisterDBTracing(db, telemetry.DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop()))

	ctx, parent := telemetry.StartServiceSpan(context.Background(), "product", "get")
	err := db.WithContext(ctx).Table("missing_table").Where("id = ?", 1).Take(&tracedRow{}).Error
	parent.End()
	require.Error(t, err)

	var failed bool
	for _, s := range sr.Ended() {
		if s.Status().Code == codes.Error {
			failed = true
		}
	}
	assert.True(t, failed)
}

func TestRegisterDBTracing_DoubleRegistration(t *testing.T) {
	db := setupTestDB(t)
	cfg := telemetry.DBTracingConfig{Enabled: true, DBSystem: "sqlite"}

	require.NoError(t, telemetry.RegisterDBTracing(db, cfg, zap.NewNop()))
	assert.Error(t, telemetry.RegisterDBTracing(db, cfg, zap.NewNop()))
}
