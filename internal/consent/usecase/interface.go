// Package usecase implements consent decision recording: upsert per
// (user, type) pair, revocation, per-user listing, and the granted check.
// Client metadata (ip address, user agent) is encrypted before it reaches
// the repository and decrypted on the way out.
package usecase

import (
	"context"

	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
)

// ConsentRepository defines persistence operations for consent records.
// The (user_id, type) pair is unique; later decisions update the row.
type ConsentRepository interface {
	// Create inserts a new consent record.
	Create(ctx context.Context, consent *consentDomain.Consent) error

	// Update persists changes to an existing consent record.
	Update(ctx context.Context, consent *consentDomain.Consent) error

	// GetByUserAndType retrieves the consent record for a user and type.
	// Returns ErrConsentNotFound when no decision has been recorded.
	GetByUserAndType(
		ctx context.Context,
		userID string,
		consentType consentDomain.ConsentType,
	) (*consentDomain.Consent, error)

	// ListByUser retrieves all consent records for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*consentDomain.Consent, error)
}

// Cipher encrypts and decrypts individual field values at rest.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(token string) (string, error)
}

// AuditRecorder appends compliance audit trail entries.
type AuditRecorder interface {
	Create(
		ctx context.Context,
		actor, action, resourceType, resourceID string,
		metadata map[string]any,
	) error
}

// RetentionTracker registers stored personal data in the retention registry.
type RetentionTracker interface {
	Track(
		ctx context.Context,
		recordID string,
		category retentionDomain.DataCategory,
	) (*retentionDomain.RetainedRecord, error)
}

// ConsentMirror propagates consent decisions to an external consent platform.
/// Mirroring is best effort: a mirror failure never fails the local decision.
type ConsentMirror interface {
	// Enabled reports whether the mirror is configured.
	Enabled() bool

	// RecordConsent mirrors a recorded decision.
	RecordConsent(
		ctx context.Context,
		userID string,
		consentType string,
		granted bool,
		purpose string,
	) error

	// RevokeConsent mirrors a revocation.
	RevokeConsent(ctx context.Context, userID string, consentType string) error
}

// RecordConsentInput contains the input data for recording a consent decision.
type RecordConsentInput struct {
	UserID      string `json:"user_id"`
	ConsentType string `json:"consent_type"`
	Status      string `json:"status"`
	Purpose     string `json:"purpose"`
	IPAddress   string `json:"ip_address"`
	UserAgent   string `json:"user_agent"`
}

// ConsentUseCase defines consent management operations.
type ConsentUseCase interface {
	// Record stores a consent decision, updating the existing record for the
	// (user, type) pair when one exists. Returns the decrypted record.
	Record(ctx context.Context, input RecordConsentInput) (*consentDomain.Consent, error)

	// Revoke marks a consent as revoked. Returns ErrConsentNotFound when no
	// decision exists and ErrConsentAlreadyRevoked when already revoked.
	Revoke(
		ctx context.Context,
		userID string,
		consentType consentDomain.ConsentType,
	) (*consentDomain.Consent, error)

	// List returns all consent records for a user with decrypted fields.
	List(ctx context.Context, userID string) ([]*consentDomain.Consent, error)

	// HasConsent reports whether the user currently grants the given type.
	// A missing record means no consent.
	HasConsent(
		ctx context.Context,
		userID string,
		consentType consentDomain.ConsentType,
	) (bool, error)
}
