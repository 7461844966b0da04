package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/billing/backend/internal/domain/shared"
	applogger "github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDKey is the gin context key set by the RequestID middleware
	RequestIDKey = "request_id"
	// RequestIDHeader is the header carrying a caller supplied request ID
	RequestIDHeader = "X-Request-ID"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if c.Request != nil {
		return c.GetHeader(RequestIDHeader)
	}
	return ""
}

// parseID reads a UUID path parameter. A malformed value is reported the
// same way as a missing resource.
func parseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, shared.ErrNotFound
	}
	return id, nil
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	code = dto.NormalizeErrorCode(code)
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// NotImplemented sends a 501 not implemented response
func (h *BaseHandler) NotImplemented(c *gin.Context, message string) {
	h.Error(c, http.StatusNotImplemented, dto.ErrCodeNotImplemented, message)
}

// RequestTooLarge sends a 413 response
func (h *BaseHandler) RequestTooLarge(c *gin.Context) {
	h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, dto.MsgRequestTooLarge)
}

// readBody reads the whole request body. It writes the error response and
// returns false when the body cannot be read; a body cut off by the size
// limit is answered with 413.
func (h *BaseHandler) readBody(c *gin.Context) ([]byte, bool) {
	payload, err := io.ReadAll(c.Request.Body)
	if err == nil {
		return payload, true
	}
	if isBodyTooLarge(err) {
		h.RequestTooLarge(c)
	} else {
		h.BadRequest(c, "Failed to read request body")
	}
	return nil, false
}

// isBodyTooLarge reports whether err comes from a body cut off by
// http.MaxBytesReader
func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 response whose body is the bare field map
func (h *BaseHandler) ValidationError(c *gin.Context, verr *shared.ValidationError) {
	c.JSON(http.StatusBadRequest, verr.ToListMap())
}

// HandleError is a generic error handler that handles validation, domain and standard errors
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var validationErr *shared.ValidationError
	if errors.As(err, &validationErr) {
		h.ValidationError(c, validationErr)
		return
	}

	// Check for domain error using errors.As for wrapped error support
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) && errors.Is(err, shared.ErrNotImplemented) {
		h.NotImplemented(c, domainErr.Message)
		return
	}
	if errors.As(err, &domainErr) {
		h.ErrorWithCode(c, domainErr.Code, domainErr.Message)
		return
	}

	applogger.GetGinLogger(c).Error("unhandled error",
		zap.String("request_id", getRequestID(c)),
		zap.Error(err),
	)
	h.InternalError(c, "An unexpected error occurred")
}
