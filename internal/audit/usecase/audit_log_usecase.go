package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
)

// auditLogUseCase implements AuditLogUseCase interface for recording audit logs.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
}

// Create records an audit log entry for a compliance-relevant action. Generates
// a unique UUIDv7 identifier and timestamp. The metadata parameter is optional
// and can be nil.
func (a *auditLogUseCase) Create(
	ctx context.Context,
	actor, action, resourceType, resourceID string,
	metadata map[string]any,
) error {
	auditLog := &auditDomain.AuditLog{
		ID:           uuid.Must(uuid.NewV7()),
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     metadata,
		CreatedAt:    time.Now().UTC(),
	}

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered by created_at descending (newest first)
// with pagination and optional time-based filtering. Accepts createdAtFrom and
// createdAtTo as optional filters (nil means no filter). Both boundaries are
// inclusive. All timestamps are expected in UTC.
func (a *auditLogUseCase) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*auditDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.List(ctx, offset, limit, createdAtFrom, createdAtTo)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}

	return auditLogs, nil
}

// ListByActor retrieves up to limit audit logs for one actor, newest first.
func (a *auditLogUseCase) ListByActor(
	ctx context.Context,
	actor string,
	limit int,
) ([]*auditDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.ListByActor(ctx, actor, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs by actor")
	}

	return auditLogs, nil
}

// DeleteOlderThan removes audit logs created more than the given number of
// days ago. In dry-run mode the repository counts matching rows without
// deleting them. Returns the affected row count.
func (a *auditLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	olderThan := time.Now().UTC().AddDate(0, 0, -days)

	count, err := a.auditLogRepo.DeleteOlderThan(ctx, olderThan, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete old audit logs")
	}

	return count, nil
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided dependencies.
func NewAuditLogUseCase(auditLogRepo AuditLogRepository) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
	}
}
