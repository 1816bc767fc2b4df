// Package domain defines the audit log model for compliance record-keeping.
// Entries are append-only: every consent decision, DSAR operation, and
// retention deletion leaves a row here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the audit log.
const (
	ActionConsentRecorded   = "consent_recorded"
	ActionConsentRevoked    = "consent_revoked"
	ActionGDPRExport        = "gdpr_export"
	ActionGDPRAnonymization = "gdpr_anonymization"
	ActionGDPRRectification = "gdpr_rectification"
	ActionWebhookReceived   = "webhook_received"
)

// AuditLog represents one append-only audit trail entry.
type AuditLog struct {
	// ID is the unique identifier for this entry.
	ID uuid.UUID
	// Actor identifies who performed the action (user id, "system", or "onetrust").
	Actor string
	// Action is what happened (e.g., "consent_recorded", "gdpr_export").
	Action string
	// ResourceType is the kind of resource acted on (e.g., "consent", "user").
	ResourceType string
	// ResourceID identifies the specific resource.
	ResourceID string
	// Metadata holds optional structured context. Never contains plaintext
	// personal data; stored as JSON.
	Metadata map[string]any
	// CreatedAt is the UTC timestamp when the entry was recorded.
	CreatedAt time.Time
}
