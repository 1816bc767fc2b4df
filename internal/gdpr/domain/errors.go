package domain

import (
	"github.com/journeymanhq/dataprotect/internal/errors"
)

// DSAR-specific error definitions.
var (
	// ErrUserAlreadyAnonymized indicates an erasure request for an account
	// that was already anonymized.
	ErrUserAlreadyAnonymized = errors.Wrap(errors.ErrConflict, "user already anonymized")

	// ErrNoRectifiableFields indicates a rectification request without any
	// allow-listed field.
	ErrNoRectifiableFields = errors.Wrap(errors.ErrInvalidInput, "no rectifiable fields provided")
)
