package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/journeymanhq/dataprotect/internal/metrics"
	userDomain "github.com/journeymanhq/dataprotect/internal/user/domain"
)

// gdprUseCaseWithMetrics decorates GDPRUseCase with metrics instrumentation.
type gdprUseCaseWithMetrics struct {
	next    GDPRUseCase
	metrics metrics.BusinessMetrics
}

// NewGDPRUseCaseWithMetrics wraps a GDPRUseCase with metrics recording.
func NewGDPRUseCaseWithMetrics(useCase GDPRUseCase, m metrics.BusinessMetrics) GDPRUseCase {
	return &gdprUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Export records metrics for data export requests.
func (g *gdprUseCaseWithMetrics) Export(ctx context.Context, userID uuid.UUID) (*ExportResult, error) {
	start := time.Now()
	result, err := g.next.Export(ctx, userID)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "gdpr", "export", status)
	g.metrics.RecordDuration(ctx, "gdpr", "export", time.Since(start), status)

	return result, err
}

// Anonymize records metrics for erasure requests.
func (g *gdprUseCaseWithMetrics) Anonymize(
	ctx context.Context,
	userID uuid.UUID,
) (*AnonymizeResult, error) {
	start := time.Now()
	result, err := g.next.Anonymize(ctx, userID)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "gdpr", "anonymize", status)
	g.metrics.RecordDuration(ctx, "gdpr", "anonymize", time.Since(start), status)

	return result, err
}

// Rectify records metrics for rectification requests.
func (g *gdprUseCaseWithMetrics) Rectify(
	ctx context.Context,
	userID uuid.UUID,
	input RectifyInput,
) (*userDomain.User, error) {
	start := time.Now()
	user, err := g.next.Rectify(ctx, userID, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	g.metrics.RecordOperation(ctx, "gdpr", "rectify", status)
	g.metrics.RecordDuration(ctx, "gdpr", "rectify", time.Since(start), status)

	return user, err
}
