package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
)

// mockConsentRepository is a mock implementation of ConsentRepository for testing.
type mockConsentRepository struct {
	mock.Mock
}

func (m *mockConsentRepository) Create(ctx context.Context, consent *consentDomain.Consent) error {
	args := m.Called(ctx, consent)
	return args.Error(0)
}

func (m *mockConsentRepository) Update(ctx context.Context, consent *consentDomain.Consent) error {
	args := m.Called(ctx, consent)
	return args.Error(0)
}

func (m *mockConsentRepository) GetByUserAndType(
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

func (m *mockConsentRepository) ListByUser(
	ctx context.Context,
	userID string,
) ([]*consentDomain.Consent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consentDomain.Consent), args.Error(1)
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

// mockRetentionTracker is a mock implementation of RetentionTracker for testing.
type mockRetentionTracker struct {
	mock.Mock
}

func (m *mockRetentionTracker) Track(
	ctx context.Context,
	recordID string,
	category retentionDomain.DataCategory,
) (*retentionDomain.RetainedRecord, error) {
	args := m.Called(ctx, recordID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retentionDomain.RetainedRecord), args.Error(1)
}

// mockConsentMirror is a mock implementation of ConsentMirror for testing.
type mockConsentMirror struct {
	mock.Mock
}

func (m *mockConsentMirror) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *mockConsentMirror) RecordConsent(
	ctx context.Context,
	userID string,
	consentType string,
	granted bool,
	purpose string,
) error {
	args := m.Called(ctx, userID, consentType, granted, purpose)
	return args.Error(0)
}

func (m *mockConsentMirror) RevokeConsent(ctx context.Context, userID string, consentType string) error {
	args := m.Called(ctx, userID, consentType)
	return args.Error(0)
}

// passthroughTxManager runs the function without a real transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeCipher marks encrypted values with a prefix so tests can tell
// plaintext and ciphertext apart.
type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	return "enc:" + plaintext, nil
}

func (fakeCipher) Decrypt(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	if !strings.HasPrefix(token, "enc:") {
		return "", errors.New("invalid token")
	}
	return strings.TrimPrefix(token, "enc:"), nil
}

type testDeps struct {
	consentRepo *mockConsentRepository
	auditor     *mockAuditRecorder
	tracker     *mockRetentionTracker
	mirror      *mockConsentMirror
}

func newTestUseCase(t *testing.T, now time.Time) (ConsentUseCase, *testDeps) {
	t.Helper()

	deps := &testDeps{
		consentRepo: &mockConsentRepository{},
		auditor:     &mockAuditRecorder{},
		tracker:     &mockRetentionTracker{},
		mirror:      &mockConsentMirror{},
	}

	useCase := NewConsentUseCase(
		passthroughTxManager{},
		deps.consentRepo,
		fakeCipher{},
		deps.auditor,
		deps.tracker,
		deps.mirror,
	)
	useCase.(*consentUseCase).now = func() time.Time { return now }

	return useCase, deps
}

func TestConsentUseCase_Record(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	validInput := RecordConsentInput{
		UserID:      "user-1",
		ConsentType: "marketing",
		Status:      "granted",
		Purpose:     "email campaigns",
		IPAddress:   "203.0.113.7",
		UserAgent:   "Mozilla/5.0",
	}

	t.Run("Success_CreatesNewConsent", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(nil, consentDomain.ErrConsentNotFound).
			Once()

		var storedConsent *consentDomain.Consent
		deps.consentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Consent")).
			Run(func(args mock.Arguments) {
				stored := *args.Get(1).(*consentDomain.Consent)
				storedConsent = &stored
			}).
			Return(nil).
			Once()

		deps.auditor.On(
			"Create", ctx, "user-1", auditDomain.ActionConsentRecorded, "consent",
			mock.AnythingOfType("string"), mock.Anything,
		).Return(nil).Once()

		deps.tracker.On("Track", ctx, mock.AnythingOfType("string"), retentionDomain.CategoryUserProfile).
			Return(&retentionDomain.RetainedRecord{}, nil).
			Once()

		deps.mirror.On("Enabled").Return(false).Once()

		consent, err := useCase.Record(ctx, validInput)
		require.NoError(t, err)

		deps.consentRepo.AssertExpectations(t)
		deps.auditor.AssertExpectations(t)
		deps.tracker.AssertExpectations(t)

		// Stored fields are ciphertext, returned fields plaintext.
		assert.Equal(t, "enc:203.0.113.7", storedConsent.IPAddress)
		assert.Equal(t, "enc:Mozilla/5.0", storedConsent.UserAgent)
		assert.Equal(t, "203.0.113.7", consent.IPAddress)
		assert.Equal(t, "Mozilla/5.0", consent.UserAgent)

		assert.NotEqual(t, uuid.Nil, consent.ID)
		assert.Equal(t, consentDomain.ConsentStatusGranted, consent.Status)
		require.NotNil(t, consent.GrantedAt)
		assert.Equal(t, now, *consent.GrantedAt)
		assert.Nil(t, consent.RevokedAt)
		assert.Equal(t, now, consent.CreatedAt)
	})

	t.Run("Success_UpdatesExistingConsent", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		earlier := now.Add(-24 * time.Hour)
		existing := &consentDomain.Consent{
			ID:        uuid.Must(uuid.NewV7()),
			UserID:    "user-1",
			Type:      consentDomain.ConsentTypeMarketing,
			Status:    consentDomain.ConsentStatusDenied,
			CreatedAt: earlier,
			UpdatedAt: earlier,
		}

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(existing, nil).
			Once()

		deps.consentRepo.On("Update", ctx, mock.AnythingOfType("*domain.Consent")).
			Return(nil).
			Once()

		deps.auditor.On(
			"Create", ctx, "user-1", auditDomain.ActionConsentRecorded, "consent",
			existing.ID.String(), mock.Anything,
		).Return(nil).Once()

		deps.mirror.On("Enabled").Return(false).Once()

		consent, err := useCase.Record(ctx, validInput)
		require.NoError(t, err)

		deps.consentRepo.AssertExpectations(t)
		deps.tracker.AssertNotCalled(t, "Track")

		assert.Equal(t, existing.ID, consent.ID)
		assert.Equal(t, consentDomain.ConsentStatusGranted, consent.Status)
		assert.Equal(t, earlier, consent.CreatedAt)
		assert.Equal(t, now, consent.UpdatedAt)
	})

	t.Run("Success_MirrorsWhenEnabled", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(nil, consentDomain.ErrConsentNotFound).
			Once()
		deps.consentRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		deps.auditor.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil).
			Once()
		deps.tracker.On("Track", ctx, mock.Anything, mock.Anything).
			Return(&retentionDomain.RetainedRecord{}, nil).
			Once()

		deps.mirror.On("Enabled").Return(true).Once()
		deps.mirror.On("RecordConsent", ctx, "user-1", "marketing", true, "email campaigns").
			Return(nil).
			Once()

		_, err := useCase.Record(ctx, validInput)
		require.NoError(t, err)
		deps.mirror.AssertExpectations(t)
	})

	t.Run("Success_MirrorFailureDoesNotFailDecision", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(nil, consentDomain.ErrConsentNotFound).
			Once()
		deps.consentRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		deps.auditor.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil).
			Once()
		deps.tracker.On("Track", ctx, mock.Anything, mock.Anything).
			Return(&retentionDomain.RetainedRecord{}, nil).
			Once()

		deps.mirror.On("Enabled").Return(true).Once()
		deps.mirror.On("RecordConsent", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("platform unavailable")).
			Once()

		consent, err := useCase.Record(ctx, validInput)
		require.NoError(t, err)
		assert.NotNil(t, consent)
	})

	t.Run("Error_UnknownConsentType", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		input := validInput
		input.ConsentType = "biometrics"

		consent, err := useCase.Record(ctx, input)
		assert.Nil(t, consent)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		deps.consentRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Error_InvalidStatus", func(t *testing.T) {
		useCase, _ := newTestUseCase(t, now)

		input := validInput
		input.Status = "revoked"

		consent, err := useCase.Record(ctx, input)
		assert.Nil(t, consent)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(nil, errors.New("database connection failed")).
			Once()

		consent, err := useCase.Record(ctx, validInput)
		assert.Nil(t, consent)
		assert.Error(t, err)
	})

	t.Run("Error_AuditFailureRollsBack", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(nil, consentDomain.ErrConsentNotFound).
			Once()
		deps.consentRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		deps.auditor.On("Create", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("audit insert failed")).
			Once()

		consent, err := useCase.Record(ctx, validInput)
		assert.Nil(t, consent)
		assert.Error(t, err)
		deps.tracker.AssertNotCalled(t, "Track")
	})
}

func TestConsentUseCase_Revoke(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		grantedAt := now.Add(-24 * time.Hour)
		existing := &consentDomain.Consent{
			ID:        uuid.Must(uuid.NewV7()),
			UserID:    "user-1",
			Type:      consentDomain.ConsentTypeAnalytics,
			Status:    consentDomain.ConsentStatusGranted,
			IPAddress: "enc:203.0.113.7",
			UserAgent: "enc:Mozilla/5.0",
			GrantedAt: &grantedAt,
		}

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeAnalytics).
			Return(existing, nil).
			Once()
		deps.consentRepo.On("Update", ctx, mock.AnythingOfType("*domain.Consent")).
			Return(nil).
			Once()

		deps.auditor.On(
			"Create", ctx, "user-1", auditDomain.ActionConsentRevoked, "consent",
			existing.ID.String(), mock.Anything,
		).Return(nil).Once()

		deps.mirror.On("Enabled").Return(true).Once()
		deps.mirror.On("RevokeConsent", ctx, "user-1", "analytics").Return(nil).Once()

		consent, err := useCase.Revoke(ctx, "user-1", consentDomain.ConsentTypeAnalytics)
		require.NoError(t, err)

		deps.consentRepo.AssertExpectations(t)
		deps.auditor.AssertExpectations(t)
		deps.mirror.AssertExpectations(t)

		assert.Equal(t, consentDomain.ConsentStatusRevoked, consent.Status)
		require.NotNil(t, consent.RevokedAt)
		assert.Equal(t, now, *consent.RevokedAt)
		assert.Equal(t, "203.0.113.7", consent.IPAddress, "returned fields are decrypted")
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeAnalytics).
			Return(nil, consentDomain.ErrConsentNotFound).
			Once()

		consent, err := useCase.Revoke(ctx, "user-1", consentDomain.ConsentTypeAnalytics)
		assert.Nil(t, consent)
		assert.ErrorIs(t, err, consentDomain.ErrConsentNotFound)
	})

	t.Run("Error_AlreadyRevoked", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		existing := &consentDomain.Consent{
			ID:     uuid.Must(uuid.NewV7()),
			UserID: "user-1",
			Type:   consentDomain.ConsentTypeAnalytics,
			Status: consentDomain.ConsentStatusRevoked,
		}

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeAnalytics).
			Return(existing, nil).
			Once()

		consent, err := useCase.Revoke(ctx, "user-1", consentDomain.ConsentTypeAnalytics)
		assert.Nil(t, consent)
		assert.ErrorIs(t, err, consentDomain.ErrConsentAlreadyRevoked)
		deps.consentRepo.AssertNotCalled(t, "Update")
	})
}

func TestConsentUseCase_List(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Success_DecryptsFields", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		consents := []*consentDomain.Consent{
			{
				ID:        uuid.Must(uuid.NewV7()),
				UserID:    "user-1",
				Type:      consentDomain.ConsentTypeMarketing,
				Status:    consentDomain.ConsentStatusGranted,
				IPAddress: "enc:203.0.113.7",
				UserAgent: "enc:Mozilla/5.0",
			},
			{
				ID:     uuid.Must(uuid.NewV7()),
				UserID: "user-1",
				Type:   consentDomain.ConsentTypeAnalytics,
				Status: consentDomain.ConsentStatusDenied,
			},
		}

		deps.consentRepo.On("ListByUser", ctx, "user-1").Return(consents, nil).Once()

		result, err := useCase.List(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, result, 2)

		assert.Equal(t, "203.0.113.7", result[0].IPAddress)
		assert.Equal(t, "Mozilla/5.0", result[0].UserAgent)
		assert.Empty(t, result[1].IPAddress)
	})

	t.Run("Error_DecryptionFailure", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		consents := []*consentDomain.Consent{
			{
				ID:        uuid.Must(uuid.NewV7()),
				UserID:    "user-1",
				Type:      consentDomain.ConsentTypeMarketing,
				IPAddress: "not-a-token",
			},
		}

		deps.consentRepo.On("ListByUser", ctx, "user-1").Return(consents, nil).Once()

		result, err := useCase.List(ctx, "user-1")
		assert.Nil(t, result)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decrypt ip address")
	})
}

func TestConsentUseCase_HasConsent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Granted", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(&consentDomain.Consent{Status: consentDomain.ConsentStatusGranted}, nil).
			Once()

		granted, err := useCase.HasConsent(ctx, "user-1", consentDomain.ConsentTypeMarketing)
		require.NoError(t, err)
		assert.True(t, granted)
	})

	t.Run("Revoked", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(&consentDomain.Consent{Status: consentDomain.ConsentStatusRevoked}, nil).
			Once()

		granted, err := useCase.HasConsent(ctx, "user-1", consentDomain.ConsentTypeMarketing)
		require.NoError(t, err)
		assert.False(t, granted)
	})

	t.Run("NoRecordMeansNoConsent", func(t *testing.T) {
		useCase, deps := newTestUseCase(t, now)

		deps.consentRepo.On("GetByUserAndType", ctx, "user-1", consentDomain.ConsentTypeMarketing).
			Return(nil, consentDomain.ErrConsentNotFound).
			Once()

		granted, err := useCase.HasConsent(ctx, "user-1", consentDomain.ConsentTypeMarketing)
		require.NoError(t, err)
		assert.False(t, granted)
	})
}
