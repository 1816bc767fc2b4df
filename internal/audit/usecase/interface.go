// Package usecase implements business logic orchestration for audit logging.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/journeymanhq/dataprotect/internal/audit/domain"
)

// AuditLogRepository defines persistence operations for audit log entries.
type AuditLogRepository interface {
	// Create inserts a new audit log entry.
	Create(ctx context.Context, auditLog *auditDomain.AuditLog) error

	// List retrieves audit log entries ordered newest first with pagination
	// and optional time-based filtering (nil means no filter, boundaries inclusive).
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditLog, error)

	// ListByActor retrieves up to limit entries for one actor, newest first.
	// Used by subject access requests to collect a user's activity trail.
	ListByActor(ctx context.Context, actor string, limit int) ([]*auditDomain.AuditLog, error)

	// DeleteOlderThan removes entries created before olderThan. In dry-run
	// mode it counts without deleting. Returns the affected row count.
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// AuditLogUseCase defines audit logging operations.
type AuditLogUseCase interface {
	// Create records an audit log entry for a compliance-relevant action.
	Create(
		ctx context.Context,
		actor, action, resourceType, resourceID string,
		metadata map[string]any,
	) error

	// List retrieves audit log entries with pagination and optional time filters.
	List(
		ctx context.Context,
		offset, limit int,
		createdAtFrom, createdAtTo *time.Time,
	) ([]*auditDomain.AuditLog, error)

	// ListByActor retrieves up to limit entries for one actor, newest first.
	ListByActor(ctx context.Context, actor string, limit int) ([]*auditDomain.AuditLog, error)

	// DeleteOlderThan removes entries older than the given number of days.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}
