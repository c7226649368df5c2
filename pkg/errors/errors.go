package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrLoginRequired   = errors.New("login required")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrTimeout         = errors.New("request timeout")
	ErrNetwork         = errors.New("network error")
	ErrServiceUnavail  = errors.New("service unavailable")
	ErrInvalidResponse = errors.New("invalid response")
	ErrInternal        = errors.New("internal error")
)

// StatusNetworkError is the status reported for failures that never produced
// an HTTP response (DNS, refused connection, cancellation).
const StatusNetworkError = 0

// Detail is a field-level message reported by the backend.
type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured application error with HTTP status mapping.
// Status mirrors the backend HTTP status for server-reported failures, 408 for
// timeouts and 0 for transport failures.
type AppError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Status  int      `json:"status_code"`
	Details []Detail `json:"details,omitempty"`
	Err     error    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Validation creates a 400 error for client-side validation failures. These
// are raised before any request leaves the device.
func Validation(message string, details []Detail) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Details: details,
		Err:     ErrValidation,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// LoginRequired creates the 401 error returned when an operation needs a
// signed-in user and none is present.
func LoginRequired() *AppError {
	return &AppError{
		Code:    "LOGIN_REQUIRED",
		Message: "please sign in to continue",
		Status:  http.StatusUnauthorized,
		Err:     ErrLoginRequired,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// Timeout creates a 408 error for requests aborted by the client timeout.
func Timeout(err error) *AppError {
	return &AppError{
		Code:    "REQUEST_TIMEOUT",
		Message: "request timed out, please check your connection",
		Status:  http.StatusRequestTimeout,
		Err:     errors.Join(ErrTimeout, err),
	}
}

// Network creates a status-0 error for requests that never reached the server.
func Network(err error) *AppError {
	return &AppError{
		Code:    "NETWORK_ERROR",
		Message: "failed to connect to server, please check your internet connection",
		Status:  StatusNetworkError,
		Err:     errors.Join(ErrNetwork, err),
	}
}

// ServiceUnavailable creates a 503 error.
func ServiceUnavailable(message string) *AppError {
	return &AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrServiceUnavail,
	}
}

// InvalidResponse creates a 502 error for backend payloads that do not match
// the expected contract.
func InvalidResponse(endpoint string, err error) *AppError {
	return &AppError{
		Code:    "INVALID_RESPONSE",
		Message: fmt.Sprintf("unexpected response from %s", endpoint),
		Status:  http.StatusBadGateway,
		Err:     errors.Join(ErrInvalidResponse, err),
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// IsLoginRequired reports whether err asks the user to sign in, either because
// no session exists locally or because the backend answered 401.
func IsLoginRequired(err error) bool {
	if errors.Is(err, ErrLoginRequired) || errors.Is(err, ErrUnauthorized) {
		return true
	}
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Status == http.StatusUnauthorized
}

// IsTransport reports whether err is a timeout or a connectivity failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrNetwork)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrLoginRequired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrTimeout):
		return http.StatusRequestTimeout
	case errors.Is(err, ErrNetwork):
		return StatusNetworkError
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeForStatus returns the error code used for a server-reported HTTP status.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_INPUT"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusRequestTimeout:
		return "REQUEST_TIMEOUT"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	}
	if status >= 500 {
		return "SERVER_ERROR"
	}
	return "REQUEST_FAILED"
}

// SentinelForStatus returns the sentinel a server-reported status unwraps to,
// or nil when there is none.
func SentinelForStatus(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusServiceUnavailable:
		return ErrServiceUnavail
	}
	return nil
}
