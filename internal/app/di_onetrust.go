package app

import (
	"fmt"

	onetrustUsecase "github.com/journeymanhq/dataprotect/internal/onetrust/usecase"
)

// WebhookUseCase returns the inbound webhook processing use case.
func (c *Container) WebhookUseCase() (onetrustUsecase.WebhookUseCase, error) {
	c.webhookUseCaseInit.Do(func() {
		useCase, err := c.initWebhookUseCase()
		if err != nil {
			c.initErrors["webhookUseCase"] = err
			return
		}
		c.webhookUseCase = useCase
	})
	if storedErr, exists := c.initErrors["webhookUseCase"]; exists {
		return nil, storedErr
	}
	return c.webhookUseCase, nil
}

// initWebhookUseCase creates the webhook use case. It replays consent events
// through the mirror-free consent use case.
func (c *Container) initWebhookUseCase() (onetrustUsecase.WebhookUseCase, error) {
	webhookConsentUseCase, err := c.WebhookConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for webhook use case: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for webhook use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for webhook use case: %w", err)
	}

	baseUseCase := onetrustUsecase.NewWebhookUseCase(webhookConsentUseCase, auditLogUseCase)

	return onetrustUsecase.NewWebhookUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}
