// Package common defines shared constants and sentinel errors used across
// the layers of DraftForge. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrVersionConflict = errors.New("version conflict")

	// Validation errors.
	ErrorValidation = errors.New("validation error")
	ErrUnknownModel = errors.New("unknown model")

	// Provider dispatch errors.
	ErrUnknownProvider = errors.New("unknown provider")
)
