// Package usecase implements the retention scanner: per-category expiry scans,
// idempotent deletion of expired registry entries, and the deletion audit trail.
package usecase

import (
	"context"

	"github.com/google/uuid"

	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
)

// RetentionRepository defines persistence operations for the retention registry.
type RetentionRepository interface {
	// Create inserts a registry entry for a newly stored piece of personal data.
	Create(ctx context.Context, record *retentionDomain.RetainedRecord) error

	// ListCandidates returns up to limit registry entries for the category,
	// oldest first. The expiry decision is not made here; the use case applies
	// the policy per record.
	ListCandidates(
		ctx context.Context,
		category retentionDomain.DataCategory,
		limit int,
	) ([]*retentionDomain.RetainedRecord, error)

	// Delete removes a registry entry. Deleting an already-deleted entry is
	// not an error (idempotent).
	Delete(ctx context.Context, id uuid.UUID) error

	// CreateDeletionLog appends a deletion audit-trail entry.
	CreateDeletionLog(ctx context.Context, log *retentionDomain.DeletionLog) error
}

// CleanupResult summarizes one category's scan.
type CleanupResult struct {
	Category retentionDomain.DataCategory `json:"category"`
	Expired  int64                        `json:"expired"`
	Deleted  int64                        `json:"deleted"`
	DryRun   bool                         `json:"dry_run"`
}

// RetentionUseCase defines the retention scanner operations.
type RetentionUseCase interface {
	// Track registers a stored piece of personal data in the retention registry.
	Track(
		ctx context.Context,
		recordID string,
		category retentionDomain.DataCategory,
	) (*retentionDomain.RetainedRecord, error)

	// DeleteExpired scans one category and deletes every expired entry,
	// appending a deletion log per record. In dry-run mode it only counts.
	// archived_data is rejected with ErrArchivedNotScannable.
	DeleteExpired(
		ctx context.Context,
		category retentionDomain.DataCategory,
		dryRun bool,
	) (*CleanupResult, error)

	// CleanupAll runs DeleteExpired for every category except archived_data.
	CleanupAll(ctx context.Context, dryRun bool) ([]*CleanupResult, error)
}
