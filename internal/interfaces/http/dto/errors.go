package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain error codes pass
// through to the client unchanged; these cover failures before a request
// ever reaches a service.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests and binding failures
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when the session is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the account lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource does not exist
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// domainCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes absent from the table fall through to classification by shape.
var domainCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeInternal:     http.StatusInternalServerError,

	"ALREADY_EXISTS":       http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"CATEGORY_NOT_EMPTY":   http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,

	// Checkout refusals are business rules, not bad requests: the
	// payload was well-formed, the shop just cannot take the order.
	"STORE_OFFLINE":       http.StatusUnprocessableEntity,
	"NO_COVERAGE":         http.StatusUnprocessableEntity,
	"MINIMUM_ORDER":       http.StatusUnprocessableEntity,
	"BELOW_MINIMUM_ORDER": http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE": http.StatusUnprocessableEntity,
	"OUT_OF_HOURS":        http.StatusUnprocessableEntity,
	"TOO_SOON":            http.StatusUnprocessableEntity,
	"SCHEDULING_DISABLED": http.StatusUnprocessableEntity,
	"SELECTION_TOO_FEW":   http.StatusUnprocessableEntity,
	"SELECTION_TOO_MANY":  http.StatusUnprocessableEntity,
	"INVALID_STATE":       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unmapped INVALID_* and UNKNOWN_* codes come from input validation in
// the domain layer and map to 400; *_NOT_FOUND codes map to 404;
// anything else is treated as a business rule violation.
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	if strings.HasPrefix(code, "INVALID_") || strings.HasPrefix(code, "UNKNOWN_") || strings.HasPrefix(code, "NO_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}
