package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for SQL tracing.
type DBTracingConfig struct {
	Enabled    bool
	DBSystem   string // postgresql or sqlite
	LogFullSQL bool   // include query variables in spans
}

// RegisterDBTracing installs the otelgorm plugin on db together with a
// callback that tags spans with the table and marks failed statements.
// Record not found is not treated as a failure.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	registrations := []struct {
		name     string
		register func(string, func(*gorm.DB)) error
	}{
		{"billing_trace:create", cb.Create().After("gorm:create").Register},
		{"billing_trace:query", cb.Query().After("gorm:query").Register},
		{"billing_trace:update", cb.Update().After("gorm:update").Register},
		{"billing_trace:delete", cb.Delete().After("gorm:delete").Register},
		{"billing_trace:row", cb.Row().After("gorm:row").Register},
		{"billing_trace:raw", cb.Raw().After("gorm:raw").Register},
	}
	for _, r := range registrations {
		if err := r.register(r.name, annotateSpan); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
	)
	return nil
}

func annotateSpan(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(db.Statement.Context)
	if !span.IsRecording() {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
}
