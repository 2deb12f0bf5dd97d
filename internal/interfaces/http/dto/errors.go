package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Financial rule violations map to 422 so clients can distinguish a
// well-formed but rejected request from a malformed one.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound:        http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Malformed input -> 400 Bad Request
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_BILLING_MODE":   http.StatusBadRequest,
	"INVALID_DIMENSIONS":     http.StatusBadRequest,
	"INVALID_DURATION":       http.StatusBadRequest,
	"INVALID_CURRENCY":       http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_RATE_KIND":      http.StatusBadRequest,

	// Business rule rejections -> 422 Unprocessable Entity
	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"OVERPAYMENT_REJECTED":      http.StatusUnprocessableEntity,
	"INVALID_WRITE_OFF":         http.StatusUnprocessableEntity,
	"WRITE_OFF_EXCEEDS_CEILING": http.StatusUnprocessableEntity,
	"MISSING_GEOMETRY":          http.StatusUnprocessableEntity,
	"MISSING_DURATION":          http.StatusUnprocessableEntity,

	// Upstream rate source down -> 503 so clients know to retry
	"RATE_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes fall back to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
