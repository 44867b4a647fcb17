package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	openaisdk "github.com/openai/openai-go"
)

// ErrorKind classifies upstream failures. The string values are stable and
// appear in ledger records and API responses.
type ErrorKind string

const (
	KindTimeout        ErrorKind = "timeout"
	KindRateLimited    ErrorKind = "rate_limited"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindUnavailable    ErrorKind = "provider_unavailable"
	KindUnknown        ErrorKind = "unknown"
)

// Error is a classified upstream failure.
type Error struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify wraps err in an Error with the matching kind. Already-classified
// errors pass through unchanged.
func Classify(provider string, err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Provider: provider, Kind: kindOf(err), Err: err}
}

func kindOf(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var apiErr *openaisdk.Error
	if errors.As(err, &apiErr) {
		return kindOfStatus(apiErr.StatusCode)
	}

	return kindOfMessage(err.Error())
}

func kindOfStatus(code int) ErrorKind {
	switch {
	case code == 429:
		return KindRateLimited
	case code == 408:
		return KindTimeout
	case code >= 500:
		return KindUnavailable
	case code >= 400:
		return KindInvalidRequest
	default:
		return KindUnknown
	}
}

// kindOfMessage is the fallback for SDKs that surface plain errors (the
// eino adapters wrap HTTP failures into strings).
func kindOfMessage(msg string) ErrorKind {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "rate limit"), strings.Contains(m, "429"), strings.Contains(m, "too many requests"):
		return KindRateLimited
	case strings.Contains(m, "timeout"), strings.Contains(m, "deadline exceeded"):
		return KindTimeout
	case strings.Contains(m, "unavailable"), strings.Contains(m, "connection refused"),
		strings.Contains(m, "502"), strings.Contains(m, "503"), strings.Contains(m, "overloaded"):
		return KindUnavailable
	case strings.Contains(m, "invalid"), strings.Contains(m, "400"), strings.Contains(m, "not found"),
		strings.Contains(m, "unsupported"):
		return KindInvalidRequest
	default:
		return KindUnknown
	}
}
