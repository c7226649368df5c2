package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
	"github.com/utafrali/RestaurantGo/pkg/logger"
	"github.com/utafrali/RestaurantGo/pkg/validator"
)

// Response is the JSON envelope of every companion API response.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
// StatusCode carries the status the backend reported (0 for transport
// failures, 408 for timeouts) and is absent for errors raised locally.
type ErrorResponse struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	StatusCode *int              `json:"status_code,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes v inside the data envelope.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Response{Data: v})
}

// WriteError writes a standardized error response based on the error type.
// It prefers the request-scoped logger from context (set by the RequestLogger
// middleware) over the fallback logger.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	status, body := ErrorBody(err)
	body.RequestID = logger.CorrelationIDFromContext(r.Context())

	if status == http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, LocalStatus(status), Response{Error: body})
}

// ErrorBody converts err into the error payload and the status it carries.
// The returned status is the upstream one; pass it through LocalStatus before
// writing it as an HTTP status.
func ErrorBody(err error) (int, *ErrorResponse) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		err = valErr.AppError()
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		upstream := appErr.Status
		return upstream, &ErrorResponse{
			Code:       appErr.Code,
			Message:    appErr.Message,
			StatusCode: &upstream,
			Fields:     detailFields(appErr.Details),
		}
	}

	status := apperrors.HTTPStatus(err)
	code := "INTERNAL_ERROR"
	message := "an internal error occurred"

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = "NOT_FOUND"
		message = "resource not found"
	case errors.Is(err, apperrors.ErrConflict):
		code = "CONFLICT"
		message = "resource conflict"
	case errors.Is(err, apperrors.ErrInvalidInput):
		code = "INVALID_INPUT"
		message = err.Error()
	case errors.Is(err, apperrors.ErrLoginRequired):
		code = "LOGIN_REQUIRED"
		message = "login required"
	}
	return status, &ErrorResponse{Code: code, Message: message}
}

// LocalStatus maps an error status onto a status the companion API can send.
// Transport failures have no HTTP status of their own and become 502; a
// backend timeout becomes 504.
func LocalStatus(status int) int {
	switch {
	case status == apperrors.StatusNetworkError:
		return http.StatusBadGateway
	case status == http.StatusRequestTimeout:
		return http.StatusGatewayTimeout
	case status < 400 || status > 599:
		return http.StatusInternalServerError
	default:
		return status
	}
}

func detailFields(details []apperrors.Detail) map[string]string {
	if len(details) == 0 {
		return nil
	}
	fields := make(map[string]string, len(details))
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	return fields
}

// WriteValidationError writes a standardized validation error response.
// It handles ValidationError from the validator package and returns field-level errors.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

// ParseID validates a path identifier. Backend identifiers are opaque strings
// or numbers, so only blank values are rejected. On failure it writes a 400
// response with code INVALID_PARAMETER and returns false.
func ParseID(w http.ResponseWriter, param string) (string, bool) {
	id := strings.TrimSpace(param)
	if id == "" || strings.ContainsAny(id, "/?#") {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "INVALID_PARAMETER",
				Message: "invalid id: " + param,
			},
		})
		return "", false
	}
	return id, true
}
