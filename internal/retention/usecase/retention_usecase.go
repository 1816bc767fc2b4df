package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/journeymanhq/dataprotect/internal/database"
	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
)

// retentionUseCase implements RetentionUseCase interface for the retention scanner.
type retentionUseCase struct {
	txManager     database.TxManager
	retentionRepo RetentionRepository
	policy        *retentionDomain.Policy
	scanBatchSize int
}

// Track registers a stored piece of personal data in the retention registry.
// Generates a unique UUIDv7 identifier and timestamp.
func (r *retentionUseCase) Track(
	ctx context.Context,
	recordID string,
	category retentionDomain.DataCategory,
) (*retentionDomain.RetainedRecord, error) {
	if recordID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "record id is required")
	}

	record := &retentionDomain.RetainedRecord{
		ID:        uuid.Must(uuid.NewV7()),
		RecordID:  recordID,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}

	if err := r.retentionRepo.Create(ctx, record); err != nil {
		return nil, apperrors.Wrap(err, "failed to track retained record")
	}

	return record, nil
}

// DeleteExpired scans one category and deletes every expired registry entry.
//
// The expiry decision is made in-process per record via the policy, so the
// strict-boundary semantics are identical to a standalone IsExpired call.
// Each deletion and its audit-trail entry commit in one transaction; a failure
// on one record stops the scan and reports the partial count.
func (r *retentionUseCase) DeleteExpired(
	ctx context.Context,
	category retentionDomain.DataCategory,
	dryRun bool,
) (*CleanupResult, error) {
	if category == retentionDomain.CategoryArchivedData {
		return nil, retentionDomain.ErrArchivedNotScannable
	}

	candidates, err := r.retentionRepo.ListCandidates(ctx, category, r.scanBatchSize)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list retention candidates")
	}

	result := &CleanupResult{Category: category, DryRun: dryRun}

	for _, candidate := range candidates {
		if !r.policy.IsExpired(candidate.CreatedAt, category) {
			continue
		}
		result.Expired++

		if dryRun {
			continue
		}

		if err := r.deleteRecord(ctx, candidate); err != nil {
			return result, err
		}
		result.Deleted++
	}

	return result, nil
}

// deleteRecord removes one registry entry and appends its deletion log in a
// single transaction.
func (r *retentionUseCase) deleteRecord(
	ctx context.Context,
	record *retentionDomain.RetainedRecord,
) error {
	return r.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := r.retentionRepo.Delete(ctx, record.ID); err != nil {
			return apperrors.Wrapf(err, "failed to delete retained record %s", record.ID)
		}

		deletionLog := &retentionDomain.DeletionLog{
			ID:        uuid.Must(uuid.NewV7()),
			RecordID:  record.RecordID,
			Category:  record.Category,
			DeletedAt: time.Now().UTC(),
		}
		if err := r.retentionRepo.CreateDeletionLog(ctx, deletionLog); err != nil {
			return apperrors.Wrapf(err, "failed to log deletion of record %s", record.ID)
		}

		return nil
	})
}

// CleanupAll runs DeleteExpired for every category except archived_data.
// Categories are scanned concurrently; the first failure cancels the rest.
func (r *retentionUseCase) CleanupAll(
	ctx context.Context,
	dryRun bool,
) ([]*CleanupResult, error) {
	categories := make([]retentionDomain.DataCategory, 0, len(retentionDomain.AllCategories())-1)
	for _, category := range retentionDomain.AllCategories() {
		if category == retentionDomain.CategoryArchivedData {
			continue
		}
		categories = append(categories, category)
	}

	results := make([]*CleanupResult, len(categories))

	g, ctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		g.Go(func() error {
			result, err := r.DeleteExpired(ctx, category, dryRun)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(err, "retention cleanup failed")
	}

	return results, nil
}

// NewRetentionUseCase creates a new RetentionUseCase with the provided dependencies.
func NewRetentionUseCase(
	txManager database.TxManager,
	retentionRepo RetentionRepository,
	policy *retentionDomain.Policy,
	scanBatchSize int,
) RetentionUseCase {
	return &retentionUseCase{
		txManager:     txManager,
		retentionRepo: retentionRepo,
		policy:        policy,
		scanBatchSize: scanBatchSize,
	}
}
