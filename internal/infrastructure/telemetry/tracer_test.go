package telemetry_test

import (
	"context"
	"testing"

	"github.com/billing/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProviderWithExporter(t *testing.T) {
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	exporter := tracetest.NewInMemoryExporter()
	tp, err := telemetry.NewTracerProviderWithExporter(telemetry.Config{
		ServiceName:   "billing-test",
		SamplingRatio: 1.0,
	}, exporter, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, tp.IsEnabled())

	_, span := telemetry.StartServiceSpan(context.Background(), "product", "list")
	span.End()
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "product.list", spans[0].Name)

	var service string
	for _, kv := range spans[0].Resource.Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "billing-test", service)
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProviderWithExporter_NeverSample(t *testing.T) {
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	exporter := tracetest.NewInMemoryExporter()
	tp, err := telemetry.NewTracerProviderWithExporter(telemetry.Config{ServiceName: "billing-test"}, exporter, zap.NewNop())
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "dropped")
	span.End()

	assert.Empty(t, exporter.GetSpans())
}
