// Package usecase implements data subject access requests: export of all
// personal data held for a user, anonymization for the right to be
// forgotten, and rectification of allow-listed fields.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	gdprDomain "github.com/journeymanhq/dataprotect/internal/gdpr/domain"
	userDomain "github.com/journeymanhq/dataprotect/internal/user/domain"
)

// GDPRRepository defines persistence operations for export receipts and
// deletion records.
type GDPRRepository interface {
	// CreateExport inserts an export receipt.
	CreateExport(ctx context.Context, export *gdprDomain.DataExport) error

	// ListExportsByUser retrieves a user's export receipts, newest first.
	ListExportsByUser(ctx context.Context, userID uuid.UUID) ([]*gdprDomain.DataExport, error)

	// CreateDeletion inserts an account deletion record.
	CreateDeletion(ctx context.Context, deletion *gdprDomain.AccountDeletion) error
}

// UserStore provides the user operations DSARs need.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
	Update(ctx context.Context, user *userDomain.User) error
}

// ConsentLister retrieves a user's consent records with decrypted fields.
type ConsentLister interface {
	List(ctx context.Context, userID string) ([]*consentDomain.Consent, error)
}

// AuditTrail records and retrieves compliance audit entries.
type AuditTrail interface {
	Create(
		ctx context.Context,
		actor, action, resourceType, resourceID string,
		metadata map[string]any,
	) error
	ListByActor(ctx context.Context, actor string, limit int) ([]*auditDomain.AuditLog, error)
}

// DataSummary gives counts over the exported data set.
type DataSummary struct {
	ConsentCount  int       `json:"consent_count"`
	AuditLogCount int       `json:"audit_log_count"`
	ExportCount   int       `json:"export_count"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// ExportResult is the complete data set held for one user.
type ExportResult struct {
	User          *userDomain.User
	Consents      []*consentDomain.Consent
	AuditLogs     []*auditDomain.AuditLog
	ExportHistory []*gdprDomain.DataExport
	DataSummary   DataSummary
}

// AnonymizeResult describes the outcome of an erasure request.
type AnonymizeResult struct {
	UserID             uuid.UUID `json:"user_id"`
	AnonymizedEmail    string    `json:"anonymized_email"`
	AnonymizedUsername string    `json:"anonymized_username"`
	DeletedAt          time.Time `json:"deleted_at"`
}

// RectifyInput contains the allow-listed fields a user may correct.
// Nil means the field is left untouched.
type RectifyInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// GDPRUseCase defines data subject access request operations.
type GDPRUseCase interface {
	// Export collects everything held for the user and records an export
	// receipt plus an audit entry.
	Export(ctx context.Context, userID uuid.UUID) (*ExportResult, error)

	// Anonymize irreversibly replaces the user's identifiers with derived
	// values, deactivates the account, and records the deletion.
	// Returns ErrUserAlreadyAnonymized on repeat requests.
	Anonymize(ctx context.Context, userID uuid.UUID) (*AnonymizeResult, error)

	// Rectify corrects allow-listed fields (username, email) and records an
	// audit entry naming the changed fields.
	Rectify(ctx context.Context, userID uuid.UUID, input RectifyInput) (*userDomain.User, error)
}
