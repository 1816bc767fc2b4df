package usecase

import (
	"context"
	"time"

	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	"github.com/journeymanhq/dataprotect/internal/metrics"
)

// consentUseCaseWithMetrics decorates ConsentUseCase with metrics instrumentation.
type consentUseCaseWithMetrics struct {
	next    ConsentUseCase
	metrics metrics.BusinessMetrics
}

// NewConsentUseCaseWithMetrics wraps a ConsentUseCase with metrics recording.
func NewConsentUseCaseWithMetrics(useCase ConsentUseCase, m metrics.BusinessMetrics) ConsentUseCase {
	return &consentUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Record records metrics for consent decision recording.
func (c *consentUseCaseWithMetrics) Record(
	ctx context.Context,
	input RecordConsentInput,
) (*consentDomain.Consent, error) {
	start := time.Now()
	consent, err := c.next.Record(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "record", status)
	c.metrics.RecordDuration(ctx, "consent", "record", time.Since(start), status)

	return consent, err
}

// Revoke records metrics for consent revocations.
func (c *consentUseCaseWithMetrics) Revoke(
	ctx context.Context,
	userID string,
	consentType consentDomain.ConsentType,
) (*consentDomain.Consent, error) {
	start := time.Now()
	consent, err := c.next.Revoke(ctx, userID, consentType)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "revoke", status)
	c.metrics.RecordDuration(ctx, "consent", "revoke", time.Since(start), status)

	return consent, err
}

// List records metrics for per-user consent listing.
func (c *consentUseCaseWithMetrics) List(
	ctx context.Context,
	userID string,
) ([]*consentDomain.Consent, error) {
	start := time.Now()
	consents, err := c.next.List(ctx, userID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "list", status)
	c.metrics.RecordDuration(ctx, "consent", "list", time.Since(start), status)

	return consents, err
}

// HasConsent records metrics for consent checks.
func (c *consentUseCaseWithMetrics) HasConsent(
	ctx context.Context,
	userID string,
	consentType consentDomain.ConsentType,
) (bool, error) {
	start := time.Now()
	granted, err := c.next.HasConsent(ctx, userID, consentType)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "consent", "has_consent", status)
	c.metrics.RecordDuration(ctx, "consent", "has_consent", time.Since(start), status)

	return granted, err
}
