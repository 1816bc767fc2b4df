package usecase

import (
	"context"
	"errors"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	"github.com/journeymanhq/dataprotect/internal/database"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
	appValidation "github.com/journeymanhq/dataprotect/internal/validation"
)

// consentUseCase implements ConsentUseCase.
type consentUseCase struct {
	txManager   database.TxManager
	consentRepo ConsentRepository
	cipher      Cipher
	auditor     AuditRecorder
	tracker     RetentionTracker
	mirror      ConsentMirror
	now         func() time.Time
}

// validateRecordConsentInput validates the record input using jellydator/validation.
func (uc *consentUseCase) validateRecordConsentInput(input RecordConsentInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.UserID,
			validation.Required.Error("user_id is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("user_id must be between 1 and 255 characters"),
		),
		validation.Field(&input.ConsentType,
			validation.Required.Error("consent_type is required"),
			validation.By(func(value interface{}) error {
				raw, _ := value.(string)
				if _, err := consentDomain.ParseConsentType(raw); err != nil {
					return validation.NewError(
						"validation_consent_type",
						"must be one of: essential, analytics, marketing, third_party",
					)
				}
				return nil
			}),
		),
		validation.Field(&input.Status,
			validation.Required.Error("status is required"),
			validation.In(
				string(consentDomain.ConsentStatusPending),
				string(consentDomain.ConsentStatusGranted),
				string(consentDomain.ConsentStatusDenied),
			).Error("status must be one of: pending, granted, denied"),
		),
		validation.Field(&input.Purpose,
			validation.Length(0, 500).Error("purpose must be at most 500 characters"),
		),
		validation.Field(&input.IPAddress,
			validation.Length(0, 64).Error("ip_address must be at most 64 characters"),
		),
		validation.Field(&input.UserAgent,
			validation.Length(0, 1024).Error("user_agent must be at most 1024 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Record stores a consent decision, updating the existing record for the
// (user, type) pair when one exists.
func (uc *consentUseCase) Record(
	ctx context.Context,
	input RecordConsentInput,
) (*consentDomain.Consent, error) {
	if err := uc.validateRecordConsentInput(input); err != nil {
		return nil, err
	}

	consentType, err := consentDomain.ParseConsentType(input.ConsentType)
	if err != nil {
		return nil, err
	}
	status := consentDomain.ConsentStatus(input.Status)

	// Client metadata is encrypted before it reaches the repository.
	encryptedIP, err := uc.cipher.Encrypt(input.IPAddress)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt ip address")
	}
	encryptedUA, err := uc.cipher.Encrypt(input.UserAgent)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt user agent")
	}

	now := uc.now().UTC()

	var consent *consentDomain.Consent
	var created bool

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := uc.consentRepo.GetByUserAndType(ctx, input.UserID, consentType)
		switch {
		case err == nil:
			consent = existing
			consent.Status = status
			consent.Purpose = input.Purpose
			consent.IPAddress = encryptedIP
			consent.UserAgent = encryptedUA
			consent.UpdatedAt = now
			if status == consentDomain.ConsentStatusGranted {
				consent.GrantedAt = &now
				consent.RevokedAt = nil
			}
			if err := uc.consentRepo.Update(ctx, consent); err != nil {
				return err
			}
		case errors.Is(err, consentDomain.ErrConsentNotFound):
			created = true
			consent = &consentDomain.Consent{
				ID:        uuid.Must(uuid.NewV7()),
				UserID:    input.UserID,
				Type:      consentType,
				Status:    status,
				Purpose:   input.Purpose,
				IPAddress: encryptedIP,
				UserAgent: encryptedUA,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if status == consentDomain.ConsentStatusGranted {
				consent.GrantedAt = &now
			}
			if err := uc.consentRepo.Create(ctx, consent); err != nil {
				return err
			}
		default:
			return err
		}

		if err := uc.auditor.Create(
			ctx,
			input.UserID,
			auditDomain.ActionConsentRecorded,
			"consent",
			consent.ID.String(),
			map[string]any{
				"consent_type": consentType.String(),
				"status":       status.String(),
				"created":      created,
			},
		); err != nil {
			return err
		}

		if created {
			if _, err := uc.tracker.Track(
				ctx,
				consent.ID.String(),
				retentionDomain.CategoryUserProfile,
			); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Mirror failures never fail the local decision; the mirror logs its own.
	if uc.mirror != nil && uc.mirror.Enabled() {
		_ = uc.mirror.RecordConsent(ctx, input.UserID, consentType.String(), consent.Granted(), input.Purpose)
	}

	consent.IPAddress = input.IPAddress
	consent.UserAgent = input.UserAgent
	return consent, nil
}

// Revoke marks a consent as revoked.
func (uc *consentUseCase) Revoke(
	ctx context.Context,
	userID string,
	consentType consentDomain.ConsentType,
) (*consentDomain.Consent, error) {
	now := uc.now().UTC()

	var consent *consentDomain.Consent

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := uc.consentRepo.GetByUserAndType(ctx, userID, consentType)
		if err != nil {
			return err
		}
		if existing.Status == consentDomain.ConsentStatusRevoked {
			return consentDomain.ErrConsentAlreadyRevoked
		}

		consent = existing
		consent.Status = consentDomain.ConsentStatusRevoked
		consent.RevokedAt = &now
		consent.UpdatedAt = now

		if err := uc.consentRepo.Update(ctx, consent); err != nil {
			return err
		}

		return uc.auditor.Create(
			ctx,
			userID,
			auditDomain.ActionConsentRevoked,
			"consent",
			consent.ID.String(),
			map[string]any{"consent_type": consentType.String()},
		)
	})
	if err != nil {
		return nil, err
	}

	if uc.mirror != nil && uc.mirror.Enabled() {
		_ = uc.mirror.RevokeConsent(ctx, userID, consentType.String())
	}

	if err := uc.decryptFields(consent); err != nil {
		return nil, err
	}
	return consent, nil
}

// List returns all consent records for a user with decrypted fields.
func (uc *consentUseCase) List(
	ctx context.Context,
	userID string,
) ([]*consentDomain.Consent, error) {
	consents, err := uc.consentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, consent := range consents {
		if err := uc.decryptFields(consent); err != nil {
			return nil, err
		}
	}
	return consents, nil
}

// HasConsent reports whether the user currently grants the given type.
func (uc *consentUseCase) HasConsent(
	ctx context.Context,
	userID string,
	consentType consentDomain.ConsentType,
) (bool, error) {
	consent, err := uc.consentRepo.GetByUserAndType(ctx, userID, consentType)
	if err != nil {
		if errors.Is(err, consentDomain.ErrConsentNotFound) {
			return false, nil
		}
		return false, err
	}
	return consent.Granted(), nil
}

// decryptFields decrypts the encrypted client metadata in place.
func (uc *consentUseCase) decryptFields(consent *consentDomain.Consent) error {
	ip, err := uc.cipher.Decrypt(consent.IPAddress)
	if err != nil {
		return apperrors.Wrap(err, "failed to decrypt ip address")
	}
	ua, err := uc.cipher.Decrypt(consent.UserAgent)
	if err != nil {
		return apperrors.Wrap(err, "failed to decrypt user agent")
	}

	consent.IPAddress = ip
	consent.UserAgent = ua
	return nil
}

// NewConsentUseCase creates a new ConsentUseCase. The mirror may be nil when
// no external consent platform is configured.
func NewConsentUseCase(
	txManager database.TxManager,
	consentRepo ConsentRepository,
	cipher Cipher,
	auditor AuditRecorder,
	tracker RetentionTracker,
	mirror ConsentMirror,
) ConsentUseCase {
	return &consentUseCase{
		txManager:   txManager,
		consentRepo: consentRepo,
		cipher:      cipher,
		auditor:     auditor,
		tracker:     tracker,
		mirror:      mirror,
		now:         time.Now,
	}
}
