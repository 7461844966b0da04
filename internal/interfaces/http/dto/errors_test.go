package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		code   string
		domain string
		status int
	}{
		{ErrCodeInternal, "INTERNAL_ERROR", http.StatusInternalServerError},
		{ErrCodeNotImplemented, "NOT_IMPLEMENTED", http.StatusNotImplemented},
		{ErrCodeServiceUnavailable, "", http.StatusServiceUnavailable},
		{ErrCodeValidation, "VALIDATION_ERROR", http.StatusBadRequest},
		{ErrCodeNotFound, "NOT_FOUND", http.StatusNotFound},
		{ErrCodeBadRequest, "BAD_REQUEST", http.StatusBadRequest},
		{ErrCodeRequestTooLarge, "", http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Regexp(t, `^ERR_[A-Z_]+$`, tt.code)
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
			assert.Equal(t, tt.code, NormalizeErrorCode(tt.code))
			if tt.domain != "" {
				assert.Equal(t, tt.code, NormalizeErrorCode(tt.domain))
				assert.Equal(t, tt.status, GetHTTPStatus(tt.domain))
			}
		})
	}
	assert.Len(t, errorCodes, len(tests))
}

func TestUnknownErrorCode(t *testing.T) {
	assert.Equal(t, "PAYMENT_DECLINED", NormalizeErrorCode("PAYMENT_DECLINED"))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("PAYMENT_DECLINED"))
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Product not found", "req-7")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	if assert.NotNil(t, resp.Error) {
		assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
		assert.Equal(t, "Product not found", resp.Error.Message)
		assert.Equal(t, "req-7", resp.Error.RequestID)
		assert.False(t, resp.Error.Timestamp.IsZero())
	}

	assert.Empty(t, NewErrorResponse(ErrCodeInternal, "boom").Error.RequestID)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		pageSize  int
		wantSize  int
		wantPages int
	}{
		{"exact pages", 40, 20, 20, 2},
		{"partial last page", 41, 20, 20, 3},
		{"empty", 0, 10, 10, 0},
		{"default page size", 25, 0, defaultPageSize, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]string{}, tt.total, 1, tt.pageSize)

			assert.True(t, resp.Success)
			assert.Nil(t, resp.Error)
			if assert.NotNil(t, resp.Meta) {
				assert.Equal(t, tt.total, resp.Meta.Total)
				assert.Equal(t, tt.wantSize, resp.Meta.PageSize)
				assert.Equal(t, tt.wantPages, resp.Meta.TotalPages)
			}
		})
	}
}

func TestDefaultListRequest(t *testing.T) {
	req := DefaultListRequest()

	assert.Equal(t, 1, req.Page)
	assert.Equal(t, defaultPageSize, req.PageSize)
	assert.Equal(t, "created_at", req.OrderBy)
	assert.Equal(t, "desc", req.OrderDir)
}
