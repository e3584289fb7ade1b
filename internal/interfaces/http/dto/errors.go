package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall through to prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	// Authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusUnauthorized,
	"USER_NOT_FOUND":      http.StatusNotFound,
	"ITEM_NOT_FOUND":      http.StatusNotFound,

	// Optimistic locking
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule violations
	"INSUFFICIENT_STOCK": http.StatusBadRequest,
	"AMOUNT_EXCEEDED":    http.StatusBadRequest,
	"QUANTITY_EXCEEDED":  http.StatusBadRequest,
	"BALANCE_MISMATCH":   http.StatusUnprocessableEntity,
	"NOT_STOCK_TRACKED":  http.StatusUnprocessableEntity,
	"NO_CHANGE":          http.StatusUnprocessableEntity,
	"NO_ITEMS":           http.StatusUnprocessableEntity,
	"SLOT_TAKEN":         http.StatusConflict,
	"ALREADY_RECEIVED":   http.StatusConflict,
	"ALREADY_EXISTS":     http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unknown codes are classified by prefix. The final default is 422 since
// unlisted codes come from domain business rules.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}

	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "DUPLICATE_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "HAS_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "INACTIVE_"):
		return http.StatusUnprocessableEntity
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	}

	return http.StatusUnprocessableEntity
}
