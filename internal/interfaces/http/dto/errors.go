package dto

import "net/http"

// Error codes emitted by the API. Domain errors carry these codes
// directly; the handler layer only translates them to HTTP statuses.
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeTokenInvalid  = "TOKEN_INVALID"
	ErrCodeTokenExpired  = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked  = "TOKEN_REVOKED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeValidation    = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Codes
// absent from the map fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,

	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenRevoked:   http.StatusUnauthorized,

	ErrCodeUnauthorized:   http.StatusForbidden,
	ErrCodeForbidden:      http.StatusForbidden,
	"VALIDATION_REQUIRED": http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,

	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	"ALREADY_OPEN":       http.StatusConflict,
	"ALREADY_CONVERTED":  http.StatusConflict,
	"ALREADY_RESOLVED":   http.StatusConflict,
	"INVALID_STATE":      http.StatusConflict,
	"INSUFFICIENT_STOCK": http.StatusConflict,
	"NO_OPEN_REGISTER":   http.StatusConflict,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
