// Package usecase processes inbound OneTrust webhook events, replaying
// platform-side consent decisions into the local records.
package usecase

import (
	"context"

	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	consentUseCase "github.com/journeymanhq/dataprotect/internal/consent/usecase"
	onetrustDomain "github.com/journeymanhq/dataprotect/internal/onetrust/domain"
)

// ConsentRecorder applies consent decisions locally. The implementation must
// not mirror back to the platform or inbound events would echo forever.
type ConsentRecorder interface {
	Record(
		ctx context.Context,
		input consentUseCase.RecordConsentInput,
	) (*consentDomain.Consent, error)
	Revoke(
		ctx context.Context,
		userID string,
		consentType consentDomain.ConsentType,
	) (*consentDomain.Consent, error)
}

// AuditRecorder records webhook receipt in the audit trail.
type AuditRecorder interface {
	Create(
		ctx context.Context,
		actor, action, resourceType, resourceID string,
		metadata map[string]any,
	) error
}

// WebhookUseCase dispatches verified webhook events.
type WebhookUseCase interface {
	// Process applies the event locally and records it in the audit trail.
	// Returns ErrUnknownEventType for events this service does not handle.
	Process(ctx context.Context, event onetrustDomain.WebhookEvent) error
}
