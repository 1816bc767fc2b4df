package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	consentUseCase "github.com/journeymanhq/dataprotect/internal/consent/usecase"
	onetrustDomain "github.com/journeymanhq/dataprotect/internal/onetrust/domain"
)

// mockConsentRecorder is a mock implementation of ConsentRecorder for testing.
type mockConsentRecorder struct {
	mock.Mock
}

func (m *mockConsentRecorder) Record(
	ctx context.Context,
	input consentUseCase.RecordConsentInput,
) (*consentDomain.Consent, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consentDomain.Consent), args.Error(1)
}

func (m *mockConsentRecorder) Revoke(
	ctx context.Context,
	userID string,
	consentType consentDomain.ConsentType,
) (*consentDomain.Consent, error) {
	args := m.Called(ctx, userID, consentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consentDomain.Consent), args.Error(1)
}

// mockAuditRecorder is a mock implementation of AuditRecorder for testing.
type mockAuditRecorder struct {
	mock.Mock
}

func (m *mockAuditRecorder) Create(
	ctx context.Context,
	actor, action, resourceType, resourceID string,
	metadata map[string]any,
) error {
	args := m.Called(ctx, actor, action, resourceType, resourceID, metadata)
	return args.Error(0)
}

func newTestConsent() *consentDomain.Consent {
	now := time.Now().UTC()
	return &consentDomain.Consent{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    "user-1",
		Type:      consentDomain.ConsentTypeMarketing,
		Status:    consentDomain.ConsentStatusGranted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestWebhookUseCase_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ConsentGranted", func(t *testing.T) {
		consents := &mockConsentRecorder{}
		auditor := &mockAuditRecorder{}
		useCase := NewWebhookUseCase(consents, auditor)

		var capturedInput consentUseCase.RecordConsentInput
		consents.On("Record", ctx, mock.AnythingOfType("usecase.RecordConsentInput")).
			Run(func(args mock.Arguments) {
				capturedInput = args.Get(1).(consentUseCase.RecordConsentInput)
			}).
			Return(newTestConsent(), nil).
			Once()

		var capturedMetadata map[string]any
		auditor.On(
			"Create", ctx, onetrustDomain.WebhookActor, auditDomain.ActionWebhookReceived,
			"webhook", "evt-1", mock.Anything,
		).Run(func(args mock.Arguments) {
			capturedMetadata = args.Get(5).(map[string]any)
		}).Return(nil).Once()

		err := useCase.Process(ctx, onetrustDomain.WebhookEvent{
			EventType:   onetrustDomain.EventConsentGranted,
			RequestID:   "evt-1",
			UserID:      "user-1",
			ConsentType: "marketing",
			Purpose:     "email campaigns",
		})
		require.NoError(t, err)

		consents.AssertExpectations(t)
		auditor.AssertExpectations(t)

		assert.Equal(t, "user-1", capturedInput.UserID)
		assert.Equal(t, "marketing", capturedInput.ConsentType)
		assert.Equal(t, "granted", capturedInput.Status)
		assert.Equal(t, "email campaigns", capturedInput.Purpose)
		assert.Equal(t, "consent.granted", capturedMetadata["event_type"])
	})

	t.Run("Success_ConsentUpdatedWithStatus", func(t *testing.T) {
		consents := &mockConsentRecorder{}
		auditor := &mockAuditRecorder{}
		useCase := NewWebhookUseCase(consents, auditor)

		var capturedInput consentUseCase.RecordConsentInput
		consents.On("Record", ctx, mock.AnythingOfType("usecase.RecordConsentInput")).
			Run(func(args mock.Arguments) {
				capturedInput = args.Get(1).(consentUseCase.RecordConsentInput)
			}).
			Return(newTestConsent(), nil).
			Once()
		auditor.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil).
			Once()

		err := useCase.Process(ctx, onetrustDomain.WebhookEvent{
			EventType:   onetrustDomain.EventConsentUpdated,
			UserID:      "user-1",
			ConsentType: "analytics",
			Status:      "denied",
		})
		require.NoError(t, err)
		assert.Equal(t, "denied", capturedInput.Status)
	})

	t.Run("Success_ConsentRevoked", func(t *testing.T) {
		consents := &mockConsentRecorder{}
		auditor := &mockAuditRecorder{}
		useCase := NewWebhookUseCase(consents, auditor)

		consents.On("Revoke", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(newTestConsent(), nil).
			Once()
		auditor.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil).
			Once()

		err := useCase.Process(ctx, onetrustDomain.WebhookEvent{
			EventType:   onetrustDomain.EventConsentRevoked,
			UserID:      "user-1",
			ConsentType: "marketing",
		})
		require.NoError(t, err)
		consents.AssertExpectations(t)
	})

	t.Run("Success_RevokeUnknownConsentIsIdempotent", func(t *testing.T) {
		consents := &mockConsentRecorder{}
		auditor := &mockAuditRecorder{}
		useCase := NewWebhookUseCase(consents, auditor)

		consents.On("Revoke", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(nil, consentDomain.ErrConsentNotFound).
			Once()
		auditor.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil).
			Once()

		err := useCase.Process(ctx, onetrustDomain.WebhookEvent{
			EventType:   onetrustDomain.EventConsentRevoked,
			UserID:      "user-1",
			ConsentType: "marketing",
		})
		require.NoError(t, err)
		auditor.AssertExpectations(t)
	})

	t.Run("Success_DSARSubmittedAuditsOnly", func(t *testing.T) {
		consents := &mockConsentRecorder{}
		auditor := &mockAuditRecorder{}
		useCase := NewWebhookUseCase(consents, auditor)

		auditor.On(
			"Create", ctx, onetrustDomain.WebhookActor, auditDomain.ActionWebhookReceived,
			"webhook", "evt-9", mock.Anything,
		).Return(nil).Once()

		err := useCase.Process(ctx, onetrustDomain.WebhookEvent{
			EventType:   onetrustDomain.EventDSARSubmitted,
			RequestID:   "evt-9",
			UserID:      "user-1",
			RequestType: "access",
		})
		require.NoError(t, err)

		consents.AssertNotCalled(t, "Record")
		consents.AssertNotCalled(t, "Revoke")
		auditor.AssertExpectations(t)
	})

	t.Run("Error_UnknownEventType", func(t *testing.T) {
		consents := &mockConsentRecorder{}
		auditor := &mockAuditRecorder{}
		useCase := NewWebhookUseCase(consents, auditor)

		err := useCase.Process(ctx, onetrustDomain.WebhookEvent{
			EventType: "consent.exploded",
			UserID:    "user-1",
		})
		assert.ErrorIs(t, err, onetrustDomain.ErrUnknownEventType)
		auditor.AssertNotCalled(t, "Create")
	})

	t.Run("Error_InvalidConsentTypeInRevoke", func(t *testing.T) {
		consents := &mockConsentRecorder{}
		auditor := &mockAuditRecorder{}
		useCase := NewWebhookUseCase(consents, auditor)

		err := useCase.Process(ctx, onetrustDomain.WebhookEvent{
			EventType:   onetrustDomain.EventConsentRevoked,
			UserID:      "user-1",
			ConsentType: "bogus",
		})
		assert.Error(t, err)
		consents.AssertNotCalled(t, "Revoke")
	})

	t.Run("Error_RecordFailurePropagates", func(t *testing.T) {
		consents := &mockConsentRecorder{}
		auditor := &mockAuditRecorder{}
		useCase := NewWebhookUseCase(consents, auditor)

		consents.On("Record", ctx, mock.Anything).
			Return(nil, errors.New("database down")).
			Once()

		err := useCase.Process(ctx, onetrustDomain.WebhookEvent{
			EventType:   onetrustDomain.EventConsentGranted,
			UserID:      "user-1",
			ConsentType: "marketing",
		})
		assert.Error(t, err)
		auditor.AssertNotCalled(t, "Create")
	})

	t.Run("Error_AuditFailurePropagates", func(t *testing.T) {
		consents := &mockConsentRecorder{}
		auditor := &mockAuditRecorder{}
		useCase := NewWebhookUseCase(consents, auditor)

		consents.On("Record", ctx, mock.Anything).Return(newTestConsent(), nil).Once()
		auditor.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("insert failed")).
			Once()

		err := useCase.Process(ctx, onetrustDomain.WebhookEvent{
			EventType:   onetrustDomain.EventConsentGranted,
			UserID:      "user-1",
			ConsentType: "marketing",
		})
		assert.Error(t, err)
	})
}
