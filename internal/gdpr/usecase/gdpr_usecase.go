package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
	"github.com/journeymanhq/dataprotect/internal/database"
	gdprDomain "github.com/journeymanhq/dataprotect/internal/gdpr/domain"
	userDomain "github.com/journeymanhq/dataprotect/internal/user/domain"
	appValidation "github.com/journeymanhq/dataprotect/internal/validation"
)

// exportAuditLogLimit caps the audit trail included in one export.
const exportAuditLogLimit = 1000

// gdprUseCase implements GDPRUseCase.
type gdprUseCase struct {
	txManager     database.TxManager
	gdprRepo      GDPRRepository
	userStore     UserStore
	consentLister ConsentLister
	auditTrail    AuditTrail
	now           func() time.Time
}

// Export collects everything held for the user and records an export receipt.
func (uc *gdprUseCase) Export(ctx context.Context, userID uuid.UUID) (*ExportResult, error) {
	user, err := uc.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	consents, err := uc.consentLister.List(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	auditLogs, err := uc.auditTrail.ListByActor(ctx, userID.String(), exportAuditLogLimit)
	if err != nil {
		return nil, err
	}

	priorExports, err := uc.gdprRepo.ListExportsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	export := &gdprDomain.DataExport{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    userID,
		CreatedAt: now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.gdprRepo.CreateExport(ctx, export); err != nil {
			return err
		}

		return uc.auditTrail.Create(
			ctx,
			userID.String(),
			auditDomain.ActionGDPRExport,
			"user",
			userID.String(),
			map[string]any{
				"consent_count":   len(consents),
				"audit_log_count": len(auditLogs),
			},
		)
	})
	if err != nil {
		return nil, err
	}

	exportHistory := append([]*gdprDomain.DataExport{export}, priorExports...)

	return &ExportResult{
		User:          user,
		Consents:      consents,
		AuditLogs:     auditLogs,
		ExportHistory: exportHistory,
		DataSummary: DataSummary{
			ConsentCount:  len(consents),
			AuditLogCount: len(auditLogs),
			ExportCount:   len(exportHistory),
			GeneratedAt:   now,
		},
	}, nil
}

// Anonymize irreversibly replaces the user's identifiers with derived values.
// The replacement email and username are deterministic digests of the
// original values, so repeat imports of the same export stay consistent
// while the plaintext is unrecoverable.
func (uc *gdprUseCase) Anonymize(ctx context.Context, userID uuid.UUID) (*AnonymizeResult, error) {
	user, err := uc.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.PasswordHash == userDomain.AnonymizedPasswordHash {
		return nil, gdprDomain.ErrUserAlreadyAnonymized
	}

	now := uc.now().UTC()

	anonymizedEmail := fmt.Sprintf("anonymized_%s@deleted.local", sha256Hex(user.Email)[:16])
	anonymizedUsername := fmt.Sprintf("Deleted User %s", sha256Hex(userID.String())[:8])

	user.Email = anonymizedEmail
	user.Username = anonymizedUsername
	user.PasswordHash = userDomain.AnonymizedPasswordHash
	user.IsActive = false
	user.IsVerified = false
	user.LastLogin = nil

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userStore.Update(ctx, user); err != nil {
			return err
		}

		deletion := &gdprDomain.AccountDeletion{
			ID:        uuid.Must(uuid.NewV7()),
			UserID:    userID,
			Reason:    gdprDomain.DeletionReasonRightToBeForgotten,
			DeletedAt: now,
		}
		if err := uc.gdprRepo.CreateDeletion(ctx, deletion); err != nil {
			return err
		}

		return uc.auditTrail.Create(
			ctx,
			userID.String(),
			auditDomain.ActionGDPRAnonymization,
			"user",
			userID.String(),
			map[string]any{"reason": gdprDomain.DeletionReasonRightToBeForgotten},
		)
	})
	if err != nil {
		return nil, err
	}

	return &AnonymizeResult{
		UserID:             userID,
		AnonymizedEmail:    anonymizedEmail,
		AnonymizedUsername: anonymizedUsername,
		DeletedAt:          now,
	}, nil
}

// validateRectifyInput validates the rectification input using jellydator/validation.
func (uc *gdprUseCase) validateRectifyInput(input RectifyInput) error {
	if input.Username == nil && input.Email == nil {
		return gdprDomain.ErrNoRectifiableFields
	}

	if input.Username != nil {
		err := validation.Validate(*input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("username must be between 1 and 255 characters"),
		)
		if err != nil {
			return appValidation.WrapValidationError(err)
		}
	}

	if input.Email != nil {
		err := validation.Validate(*input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		)
		if err != nil {
			return appValidation.WrapValidationError(err)
		}
	}

	return nil
}

// Rectify corrects allow-listed fields and records which fields changed.
func (uc *gdprUseCase) Rectify(
	ctx context.Context,
	userID uuid.UUID,
	input RectifyInput,
) (*userDomain.User, error) {
	if err := uc.validateRectifyInput(input); err != nil {
		return nil, err
	}

	user, err := uc.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var changedFields []string
	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
		changedFields = append(changedFields, "username")
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(strings.ToLower(*input.Email))
		changedFields = append(changedFields, "email")
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userStore.Update(ctx, user); err != nil {
			return err
		}

		// Only field names go to the audit trail, never the values.
		return uc.auditTrail.Create(
			ctx,
			userID.String(),
			auditDomain.ActionGDPRRectification,
			"user",
			userID.String(),
			map[string]any{"fields": changedFields},
		)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// sha256Hex returns the hex-encoded SHA-256 digest of s.
func sha256Hex(s string) string {
	digest := sha256.Sum256([]byte(s))
	return hex.EncodeToString(digest[:])
}

// NewGDPRUseCase creates a new GDPRUseCase.
func NewGDPRUseCase(
	txManager database.TxManager,
	gdprRepo GDPRRepository,
	userStore UserStore,
	consentLister ConsentLister,
	auditTrail AuditTrail,
) GDPRUseCase {
	return &gdprUseCase{
		txManager:     txManager,
		gdprRepo:      gdprRepo,
		userStore:     userStore,
		consentLister: consentLister,
		auditTrail:    auditTrail,
		now:           time.Now,
	}
}
