package domain

import (
	"github.com/journeymanhq/dataprotect/internal/errors"
)

// Consent-specific error definitions.
var (
	// ErrConsentNotFound indicates no consent record exists for the user and type.
	ErrConsentNotFound = errors.Wrap(errors.ErrNotFound, "consent not found")

	// ErrUnknownConsentType indicates the consent type is not one of the known purposes.
	ErrUnknownConsentType = errors.Wrap(errors.ErrInvalidInput, "unknown consent type")

	// ErrConsentAlreadyRevoked indicates a revoke on a consent that is already revoked.
	ErrConsentAlreadyRevoked = errors.Wrap(errors.ErrConflict, "consent already revoked")
)
