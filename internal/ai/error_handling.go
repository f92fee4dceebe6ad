package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/stegangeorgiev/fitness-app/internal/errors"
)

// ErrorKind groups chat completion failures by what the caller can do about them.
type ErrorKind string

const (
	KindTimeout        ErrorKind = "timeout"
	KindRateLimit      ErrorKind = "rate_limit"
	KindAuthentication ErrorKind = "authentication"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindServer         ErrorKind = "server_error"
	KindUnknown        ErrorKind = "unknown"
)

// Error is a classified chat completion failure.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("chat completion %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("chat completion %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran out of time or was canceled.
func (e *Error) Timeout() bool {
	return e.Kind == KindTimeout
}

// Classify wraps err in an [*Error]. Errors that are already classified are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Kind: KindTimeout, StatusCode: 0, Err: err}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &Error{Kind: kindForStatus(apiErr.StatusCode), StatusCode: apiErr.StatusCode, Err: err}
	}

	msg := strings.ToLower(err.Error())
	kind := KindUnknown
	switch {
	case strings.Contains(msg, "timeout"):
		kind = KindTimeout
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests"):
		kind = KindRateLimit
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "api key"):
		kind = KindAuthentication
	}
	return &Error{Kind: kind, StatusCode: 0, Err: err}
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthentication
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= http.StatusInternalServerError:
		return KindServer
	case status >= http.StatusBadRequest:
		return KindInvalidRequest
	default:
		return KindUnknown
	}
}

// IsTimeout reports whether err is a classified timeout.
func IsTimeout(err error) bool {
	var classified *Error
	return errors.As(err, &classified) && classified.Timeout()
}
