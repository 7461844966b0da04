package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("Billing API", "1.0.0", nil)
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	store := new(MockPinger)
	store.On("Name").Return("mongodb")
	h := NewSystemHandler("Billing API", "1.0.0", store)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/system/info", nil)

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Billing API", data["name"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.Equal(t, "mongodb", data["store"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("Billing API", "1.0.0", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/system/ping", nil)

	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "pong", data["message"])

	// Verify timestamp is valid RFC3339
	_, err := time.Parse(time.RFC3339, data["timestamp"].(string))
	assert.NoError(t, err)
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("store reachable", func(t *testing.T) {
		store := new(MockPinger)
		store.On("Name").Return("sqlite")
		store.On("Ping", mock.Anything).Return(nil)
		h := NewSystemHandler("Billing API", "1.0.0", store)

		c, w := newTestContext()
		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "sqlite", resp.Store)
	})

	t.Run("store down", func(t *testing.T) {
		store := new(MockPinger)
		store.On("Name").Return("mongodb")
		store.On("Ping", mock.Anything).Return(assert.AnError)
		h := NewSystemHandler("Billing API", "1.0.0", store)

		c, w := newTestContext()
		c.Set(RequestIDKey, "health-1")
		h.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeServiceUnavailable, resp.Error.Code)
		assert.Equal(t, "health-1", resp.Error.RequestID)
	})
}
