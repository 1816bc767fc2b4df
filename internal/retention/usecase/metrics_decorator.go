package usecase

import (
	"context"
	"time"

	"github.com/journeymanhq/dataprotect/internal/metrics"
	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
)

// retentionUseCaseWithMetrics decorates RetentionUseCase with metrics instrumentation.
type retentionUseCaseWithMetrics struct {
	next    RetentionUseCase
	metrics metrics.BusinessMetrics
}

// NewRetentionUseCaseWithMetrics wraps a RetentionUseCase with metrics recording.
func NewRetentionUseCaseWithMetrics(useCase RetentionUseCase, m metrics.BusinessMetrics) RetentionUseCase {
	return &retentionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Track records metrics for registry tracking operations.
func (r *retentionUseCaseWithMetrics) Track(
	ctx context.Context,
	recordID string,
	category retentionDomain.DataCategory,
) (*retentionDomain.RetainedRecord, error) {
	start := time.Now()
	record, err := r.next.Track(ctx, recordID, category)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "retention", "track", status)
	r.metrics.RecordDuration(ctx, "retention", "track", time.Since(start), status)

	return record, err
}

// DeleteExpired records metrics for single-category expiry scans.
func (r *retentionUseCaseWithMetrics) DeleteExpired(
	ctx context.Context,
	category retentionDomain.DataCategory,
	dryRun bool,
) (*CleanupResult, error) {
	start := time.Now()
	result, err := r.next.DeleteExpired(ctx, category, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "retention", "delete_expired", status)
	r.metrics.RecordDuration(ctx, "retention", "delete_expired", time.Since(start), status)

	return result, err
}

// CleanupAll records metrics for full cleanup runs.
func (r *retentionUseCaseWithMetrics) CleanupAll(
	ctx context.Context,
	dryRun bool,
) ([]*CleanupResult, error) {
	start := time.Now()
	results, err := r.next.CleanupAll(ctx, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "retention", "cleanup_all", status)
	r.metrics.RecordDuration(ctx, "retention", "cleanup_all", time.Since(start), status)

	return results, err
}
