package usecase

import (
	"context"
	"time"

	"github.com/journeymanhq/dataprotect/internal/metrics"
	onetrustDomain "github.com/journeymanhq/dataprotect/internal/onetrust/domain"
)

// webhookUseCaseWithMetrics decorates WebhookUseCase with metrics instrumentation.
type webhookUseCaseWithMetrics struct {
	next    WebhookUseCase
	metrics metrics.BusinessMetrics
}

// NewWebhookUseCaseWithMetrics wraps a WebhookUseCase with metrics recording.
func NewWebhookUseCaseWithMetrics(useCase WebhookUseCase, m metrics.BusinessMetrics) WebhookUseCase {
	return &webhookUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Process records metrics for webhook processing.
func (w *webhookUseCaseWithMetrics) Process(
	ctx context.Context,
	event onetrustDomain.WebhookEvent,
) error {
	start := time.Now()
	err := w.next.Process(ctx, event)

	status := "success"
	if err != nil {
		status = "error"
	}

	w.metrics.RecordOperation(ctx, "onetrust", "process_webhook", status)
	w.metrics.RecordDuration(ctx, "onetrust", "process_webhook", time.Since(start), status)

	return err
}
