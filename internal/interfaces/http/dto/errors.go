package dto

import "net/http"

// Error codes returned in ErrorInfo.Code
const (
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodeNotImplemented     = "ERR_NOT_IMPLEMENTED"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeBadRequest         = "ERR_BAD_REQUEST"
	ErrCodeRequestTooLarge    = "ERR_REQUEST_TOO_LARGE"
)

// MsgRequestTooLarge is the message sent with ErrCodeRequestTooLarge
const MsgRequestTooLarge = "Request body exceeds maximum allowed size"

// errorCodes pairs each code with its HTTP status and the shared.DomainError
// code it replaces, if any.
var errorCodes = map[string]struct {
	status int
	domain string
}{
	ErrCodeInternal:           {http.StatusInternalServerError, "INTERNAL_ERROR"},
	ErrCodeNotImplemented:     {http.StatusNotImplemented, "NOT_IMPLEMENTED"},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, ""},
	ErrCodeValidation:         {http.StatusBadRequest, "VALIDATION_ERROR"},
	ErrCodeNotFound:           {http.StatusNotFound, "NOT_FOUND"},
	ErrCodeBadRequest:         {http.StatusBadRequest, "BAD_REQUEST"},
	ErrCodeRequestTooLarge:    {http.StatusRequestEntityTooLarge, ""},
}

var domainCodes = func() map[string]string {
	m := make(map[string]string, len(errorCodes))
	for code, info := range errorCodes {
		if info.domain != "" {
			m[info.domain] = code
		}
	}
	return m
}()

// GetHTTPStatus returns the HTTP status for code, or 500 for unknown codes
func GetHTTPStatus(code string) int {
	if info, ok := errorCodes[NormalizeErrorCode(code)]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode maps a domain error code such as NOT_FOUND to its API
// code. Other codes are returned unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := domainCodes[code]; ok {
		return apiCode
	}
	return code
}
