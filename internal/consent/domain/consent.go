// Package domain defines the core domain models for consent management.
// A consent records one user decision for one processing purpose; the
// (user_id, consent_type) pair is unique and later decisions update the row.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ConsentType identifies the processing purpose a consent decision covers.
type ConsentType string

// Known consent types.
const (
	ConsentTypeEssential  ConsentType = "essential"
	ConsentTypeAnalytics  ConsentType = "analytics"
	ConsentTypeMarketing  ConsentType = "marketing"
	ConsentTypeThirdParty ConsentType = "third_party"
)

// AllConsentTypes returns every known consent type.
func AllConsentTypes() []ConsentType {
	return []ConsentType{
		ConsentTypeEssential,
		ConsentTypeAnalytics,
		ConsentTypeMarketing,
		ConsentTypeThirdParty,
	}
}

// ParseConsentType validates a raw string against the known consent types.
func ParseConsentType(raw string) (ConsentType, error) {
	for _, consentType := range AllConsentTypes() {
		if string(consentType) == raw {
			return consentType, nil
		}
	}
	return "", ErrUnknownConsentType
}

// String returns the wire representation of the consent type.
func (c ConsentType) String() string {
	return string(c)
}

// ConsentStatus is the lifecycle state of a consent decision.
type ConsentStatus string

// Consent lifecycle states.
const (
	ConsentStatusPending ConsentStatus = "pending"
	ConsentStatusGranted ConsentStatus = "granted"
	ConsentStatusDenied  ConsentStatus = "denied"
	ConsentStatusRevoked ConsentStatus = "revoked"
)

// String returns the wire representation of the consent status.
func (s ConsentStatus) String() string {
	return string(s)
}

// Consent represents one user's decision for one consent type.
type Consent struct {
	// ID is the unique identifier for this consent record.
	ID uuid.UUID
	// UserID identifies the data subject.
	UserID string
	// Type is the processing purpose this decision covers.
	Type ConsentType
	// Status is the current lifecycle state of the decision.
	Status ConsentStatus
	// Purpose is the human-readable description shown when consent was requested.
	Purpose string
	// IPAddress is the client address captured with the decision.
	// Encrypted at rest; plaintext only in memory.
	IPAddress string
	// UserAgent is the client user agent captured with the decision.
	// Encrypted at rest; plaintext only in memory.
	UserAgent string
	// GrantedAt is when the user granted consent (nil if never granted).
	GrantedAt *time.Time
	// RevokedAt is when the user revoked consent (nil if not revoked).
	RevokedAt *time.Time
	// CreatedAt is the UTC timestamp when this record was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last decision change.
	UpdatedAt time.Time
}

// Granted reports whether the consent is currently in effect.
func (c *Consent) Granted() bool {
	return c.Status == ConsentStatusGranted
}
