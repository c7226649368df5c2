package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	apperrors "github.com/utafrali/RestaurantGo/pkg/errors"
)

// ErrorBody is the error payload shape the restaurant backend returns. The
// backend is inconsistent about which field carries the text, so both are
// accepted.
type ErrorBody struct {
	Message string             `json:"message"`
	Error   json.RawMessage    `json:"error"`
	Details []apperrors.Detail `json:"details"`
}

// ResponseError builds the AppError for a non-2xx status and its raw body.
func ResponseError(status int, body []byte) error {
	message := fmt.Sprintf("HTTP %d", status)

	var parsed ErrorBody
	var details []apperrors.Detail
	if json.Unmarshal(body, &parsed) == nil {
		details = parsed.Details
		switch {
		case strings.TrimSpace(parsed.Message) != "":
			message = parsed.Message
		case errorText(parsed.Error) != "":
			message = errorText(parsed.Error)
		}
	}

	return &apperrors.AppError{
		Code:    apperrors.CodeForStatus(status),
		Message: message,
		Status:  status,
		Details: details,
		Err:     apperrors.SentinelForStatus(status),
	}
}

// errorText extracts the text of an "error" field that may be a plain string
// or an object with its own message.
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return strings.TrimSpace(obj.Message)
	}
	return ""
}

// ClassifyTransportError maps a failure that produced no HTTP response onto
// the client error taxonomy: timeouts become REQUEST_TIMEOUT (408), anything
// else NETWORK_ERROR (0).
func ClassifyTransportError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Timeout(err)
	}
	var netErr net.Error
	if asNetError(err, &netErr) && netErr.Timeout() {
		return apperrors.Timeout(err)
	}
	return apperrors.Network(err)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func asNetError(err error, target *net.Error) bool {
	return errors.As(err, target)
}
