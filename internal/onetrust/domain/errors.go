package domain

import (
	"github.com/journeymanhq/dataprotect/internal/errors"
)

// OneTrust-specific error definitions.
var (
	// ErrNotConfigured indicates the integration is disabled or missing
	// credentials. Mirroring is best-effort, so callers usually check
	// Enabled() instead of hitting this.
	ErrNotConfigured = errors.Wrap(errors.ErrUnavailable, "onetrust integration not configured")

	// ErrInvalidSignature indicates an inbound webhook failed HMAC verification.
	ErrInvalidSignature = errors.Wrap(errors.ErrUnauthorized, "invalid webhook signature")

	// ErrUnknownEventType indicates an inbound webhook event this service
	// does not handle.
	ErrUnknownEventType = errors.Wrap(errors.ErrInvalidInput, "unknown webhook event type")
)
