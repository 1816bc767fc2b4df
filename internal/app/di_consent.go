package app

import (
	"fmt"

	consentRepository "github.com/journeymanhq/dataprotect/internal/consent/repository"
	consentUsecase "github.com/journeymanhq/dataprotect/internal/consent/usecase"
	onetrustService "github.com/journeymanhq/dataprotect/internal/onetrust/service"
)

// ConsentRepository returns the consent repository based on database driver.
func (c *Container) ConsentRepository() (consentUsecase.ConsentRepository, error) {
	c.consentRepoInit.Do(func() {
		repo, err := c.initConsentRepository()
		if err != nil {
			c.initErrors["consentRepository"] = err
			return
		}
		c.consentRepo = repo
	})
	if storedErr, exists := c.initErrors["consentRepository"]; exists {
		return nil, storedErr
	}
	return c.consentRepo, nil
}

// OneTrustClient returns the consent platform client. The client is always
// constructed; it refuses calls when the integration is not configured.
func (c *Container) OneTrustClient() *onetrustService.Client {
	c.oneTrustClientInit.Do(func() {
		c.oneTrustClient = onetrustService.NewClient(onetrustService.ClientConfig{
			Enabled:  c.config.OneTrustEnabled,
			BaseURL:  c.config.OneTrustBaseURL,
			APIKey:   c.config.OneTrustAPIKey,
			TenantID: c.config.OneTrustTenantID,
			Timeout:  c.config.OneTrustTimeout,
		}, c.Logger())
	})
	return c.oneTrustClient
}

// ConsentUseCase returns the consent use case that mirrors decisions to the
// consent platform.
func (c *Container) ConsentUseCase() (consentUsecase.ConsentUseCase, error) {
	c.consentUseCaseInit.Do(func() {
		useCase, err := c.initConsentUseCase(c.OneTrustClient())
		if err != nil {
			c.initErrors["consentUseCase"] = err
			return
		}
		c.consentUseCase = useCase
	})
	if storedErr, exists := c.initErrors["consentUseCase"]; exists {
		return nil, storedErr
	}
	return c.consentUseCase, nil
}

// WebhookConsentUseCase returns the consent use case used to replay inbound
// platform events. It has no mirror, so replayed decisions never echo back.
func (c *Container) WebhookConsentUseCase() (consentUsecase.ConsentUseCase, error) {
	c.webhookConsentUseCaseInit.Do(func() {
		useCase, err := c.initConsentUseCase(nil)
		if err != nil {
			c.initErrors["webhookConsentUseCase"] = err
			return
		}
		c.webhookConsentUseCase = useCase
	})
	if storedErr, exists := c.initErrors["webhookConsentUseCase"]; exists {
		return nil, storedErr
	}
	return c.webhookConsentUseCase, nil
}

// initConsentRepository creates the consent repository based on the database driver.
func (c *Container) initConsentRepository() (consentUsecase.ConsentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for consent repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return consentRepository.NewPostgreSQLConsentRepository(db), nil
	case "mysql":
		return consentRepository.NewMySQLConsentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initConsentUseCase creates a consent use case with all its dependencies.
// mirror may be nil for the webhook replay path.
func (c *Container) initConsentUseCase(
	mirror consentUsecase.ConsentMirror,
) (consentUsecase.ConsentUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for consent use case: %w", err)
	}

	consentRepo, err := c.ConsentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent repository for consent use case: %w", err)
	}

	fieldCipher, err := c.FieldCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get field cipher for consent use case: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for consent use case: %w", err)
	}

	retentionUseCase, err := c.RetentionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get retention use case for consent use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for consent use case: %w", err)
	}

	baseUseCase := consentUsecase.NewConsentUseCase(
		txManager,
		consentRepo,
		fieldCipher,
		auditLogUseCase,
		retentionUseCase,
		mirror,
	)

	return consentUsecase.NewConsentUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}
