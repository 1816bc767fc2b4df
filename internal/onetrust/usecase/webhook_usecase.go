package usecase

import (
	"context"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	consentUseCase "github.com/journeymanhq/dataprotect/internal/consent/usecase"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	onetrustDomain "github.com/journeymanhq/dataprotect/internal/onetrust/domain"
)

// webhookUseCase implements WebhookUseCase.
type webhookUseCase struct {
	consents ConsentRecorder
	auditor  AuditRecorder
}

// Process applies a verified webhook event locally and records it in the
// audit trail. Revocations for consents this service never saw are treated
// as already applied, so platform replays stay idempotent.
func (uc *webhookUseCase) Process(ctx context.Context, event onetrustDomain.WebhookEvent) error {
	switch event.EventType {
	case onetrustDomain.EventConsentGranted:
		if err := uc.recordConsent(ctx, event, consentDomain.ConsentStatusGranted.String()); err != nil {
			return err
		}

	case onetrustDomain.EventConsentUpdated:
		status := event.Status
		if status == "" {
			status = consentDomain.ConsentStatusGranted.String()
		}
		if err := uc.recordConsent(ctx, event, status); err != nil {
			return err
		}

	case onetrustDomain.EventConsentRevoked:
		if err := uc.revokeConsent(ctx, event); err != nil {
			return err
		}

	case onetrustDomain.EventDSARSubmitted:
		// Recorded in the audit trail only; DSAR fulfillment happens through
		// the gdpr endpoints.

	default:
		return onetrustDomain.ErrUnknownEventType
	}

	return uc.auditor.Create(
		ctx,
		onetrustDomain.WebhookActor,
		auditDomain.ActionWebhookReceived,
		"webhook",
		event.RequestID,
		map[string]any{
			"event_type": event.EventType,
			"user_id":    event.UserID,
		},
	)
}

func (uc *webhookUseCase) recordConsent(
	ctx context.Context,
	event onetrustDomain.WebhookEvent,
	status string,
) error {
	_, err := uc.consents.Record(ctx, consentUseCase.RecordConsentInput{
		UserID:      event.UserID,
		ConsentType: event.ConsentType,
		Status:      status,
		Purpose:     event.Purpose,
	})
	return err
}

func (uc *webhookUseCase) revokeConsent(
	ctx context.Context,
	event onetrustDomain.WebhookEvent,
) error {
	consentType, err := consentDomain.ParseConsentType(event.ConsentType)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "invalid consent type in webhook event")
	}

	_, err = uc.consents.Revoke(ctx, event.UserID, consentType)
	if err != nil {
		if apperrors.Is(err, consentDomain.ErrConsentNotFound) ||
			apperrors.Is(err, consentDomain.ErrConsentAlreadyRevoked) {
			return nil
		}
		return err
	}

	return nil
}

// NewWebhookUseCase creates a new WebhookUseCase.
func NewWebhookUseCase(consents ConsentRecorder, auditor AuditRecorder) WebhookUseCase {
	return &webhookUseCase{
		consents: consents,
		auditor:  auditor,
	}
}
