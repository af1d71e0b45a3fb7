package dto

import (
	"errors"
	"github.com/nikolayk812/cart-service/internal/domain"
	"net/http"
)

// Error codes, formatted ERR_<DESCRIPTION>.
const (
	ErrCodeInternal      = "ERR_INTERNAL"
	ErrCodeInvalidInput  = "ERR_INVALID_INPUT"
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeUnauthorized  = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired  = "ERR_TOKEN_EXPIRED"
	ErrCodeConflict      = "ERR_CONFLICT"
	ErrCodeBodyTooLarge  = "ERR_BODY_TOO_LARGE"
	ErrCodeRouteNotFound = "ERR_ROUTE_NOT_FOUND"
	ErrCodeKeyReused     = "ERR_IDEMPOTENCY_KEY_REUSED"
)

var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeTokenExpired:  http.StatusUnauthorized,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeBodyTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeRouteNotFound: http.StatusNotFound,
	ErrCodeKeyReused:     http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorCode classifies a service error. Unclassified errors are internal.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return ErrCodeInvalidInput
	case errors.Is(err, domain.ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return ErrCodeUnauthorized
	default:
		return ErrCodeInternal
	}
}
