package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

const productID = "12345678-1234-1234-1234-123456789abc"

// setupTestTracer installs a recording tracer provider for the test
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(noop.NewTracerProvider())
	})
	return sr
}

// tracedRouter serves GET /billing/products/:id with the full tracing stack
func tracedRouter(status int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "billing-test"}))
	router.Use(TracingAttributeInjector())
	router.Use(SpanErrorMarker())
	router.GET("/billing/products/:id", func(c *gin.Context) {
		c.Status(status)
	})
	return router
}

func findSpan(t *testing.T, sr *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, span := range sr.Ended() {
		if span.Name() == name {
			return span
		}
	}
	require.Failf(t, "span not found", "no ended span named %q", name)
	return nil
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	router.GET("/billing/order", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/billing/order", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_DefaultConfig(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing())
	router.GET("/billing/order", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/billing/order", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	findSpan(t, sr, "GET /billing/order")
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()

	assert.Equal(t, "billing-backend", cfg.ServiceName)
	assert.True(t, cfg.Enabled)
}

func TestTracingAttributeInjector(t *testing.T) {
	t.Run("request and resource ids", func(t *testing.T) {
		sr := setupTestTracer(t)
		req := httptest.NewRequest(http.MethodGet, "/billing/products/"+productID, nil)
		req.Header.Set("X-Request-ID", "req-123")
		tracedRouter(http.StatusOK).ServeHTTP(httptest.NewRecorder(), req)

		span := findSpan(t, sr, "GET /billing/products/:id")
		requestID, ok := spanAttr(span, "request_id")
		require.True(t, ok)
		assert.Equal(t, "req-123", requestID.AsString())
		resourceID, ok := spanAttr(span, "resource_id")
		require.True(t, ok)
		assert.Equal(t, productID, resourceID.AsString())
	})

	t.Run("malformed resource id skipped", func(t *testing.T) {
		sr := setupTestTracer(t)
		req := httptest.NewRequest(http.MethodGet, "/billing/products/not-a-uuid", nil)
		tracedRouter(http.StatusNotFound).ServeHTTP(httptest.NewRecorder(), req)

		span := findSpan(t, sr, "GET /billing/products/:id")
		_, ok := spanAttr(span, "resource_id")
		assert.False(t, ok)
		_, ok = spanAttr(span, "request_id")
		assert.True(t, ok, "generated request id is still recorded")
	})

	t.Run("no recording span", func(t *testing.T) {
		otel.SetTracerProvider(noop.NewTracerProvider())

		router := gin.New()
		router.Use(TracingAttributeInjector())
		router.GET("/billing/order", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/billing/order", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSpanErrorMarker(t *testing.T) {
	tests := []struct {
		status      int
		wantCode    codes.Code
		description string
	}{
		{http.StatusOK, codes.Unset, ""},
		{http.StatusNoContent, codes.Unset, ""},
		{http.StatusBadRequest, codes.Error, "Client Error"},
		{http.StatusNotFound, codes.Error, "Not Found"},
		{http.StatusRequestEntityTooLarge, codes.Error, "Client Error"},
		{http.StatusInternalServerError, codes.Error, "Internal Server Error"},
		{http.StatusNotImplemented, codes.Error, "Not Implemented"},
		{http.StatusServiceUnavailable, codes.Error, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			sr := setupTestTracer(t)
			w := httptest.NewRecorder()
			tracedRouter(tt.status).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/billing/products/"+productID, nil))
			require.Equal(t, tt.status, w.Code)

			span := findSpan(t, sr, "GET /billing/products/:id")
			if tt.wantCode == codes.Error {
				assert.Equal(t, codes.Error, span.Status().Code)
				assert.Equal(t, tt.description, span.Status().Description)
				statusAttr, ok := spanAttr(span, "http.status_code")
				require.True(t, ok)
				assert.Equal(t, int64(tt.status), statusAttr.AsInt64())
			} else {
				assert.NotEqual(t, codes.Error, span.Status().Code)
			}
		})
	}

	t.Run("no recording span", func(t *testing.T) {
		otel.SetTracerProvider(noop.NewTracerProvider())

		router := gin.New()
		router.Use(SpanErrorMarker())
		router.GET("/billing/order", func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/billing/order", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name    string
		context string
		header  string
		want    string
	}{
		{"context wins", "ctx-id", "header-id", "ctx-id"},
		{"header fallback", "", "header-id", "header-id"},
		{"long header truncated", "", strings.Repeat("b", 200), strings.Repeat("b", MaxRequestIDLength)},
		{"none", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/billing/order", nil)
			if tt.header != "" {
				c.Request.Header.Set(requestIDHeader, tt.header)
			}
			if tt.context != "" {
				c.Set(requestIDKey, tt.context)
			}

			assert.Equal(t, tt.want, getRequestID(c))
		})
	}
}

func TestIsValidResourceID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{productID, true},
		{strings.ToUpper(productID), true},
		{"12345678-1234-1234-1234-123456789AbC", true},
		{"12345678-1234-1234", false},
		{"12345678123412341234123456789abc", false},
		{"urn:uuid:" + productID, false},
		{"{" + productID + "}", false},
		{"12345678-1234-1234-1234-123456789<>!", false},
		{"<script>alert(1)</script>", false},
		{"12345678-1234 -1234-1234-123456789abc", false},
		{productID + strings.Repeat("extra", 100), false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, isValidResourceID(tt.id))
		})
	}
}
