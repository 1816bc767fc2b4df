package app

import (
	"fmt"

	retentionDomain "github.com/journeymanhq/dataprotect/internal/retention/domain"
	retentionRepository "github.com/journeymanhq/dataprotect/internal/retention/repository"
	retentionUsecase "github.com/journeymanhq/dataprotect/internal/retention/usecase"
)

// RetentionRepository returns the retention registry repository based on database driver.
func (c *Container) RetentionRepository() (retentionUsecase.RetentionRepository, error) {
	c.retentionRepoInit.Do(func() {
		repo, err := c.initRetentionRepository()
		if err != nil {
			c.initErrors["retentionRepository"] = err
			return
		}
		c.retentionRepo = repo
	})
	if storedErr, exists := c.initErrors["retentionRepository"]; exists {
		return nil, storedErr
	}
	return c.retentionRepo, nil
}

// RetentionUseCase returns the retention use case.
func (c *Container) RetentionUseCase() (retentionUsecase.RetentionUseCase, error) {
	c.retentionUseCaseInit.Do(func() {
		useCase, err := c.initRetentionUseCase()
		if err != nil {
			c.initErrors["retentionUseCase"] = err
			return
		}
		c.retentionUseCase = useCase
	})
	if storedErr, exists := c.initErrors["retentionUseCase"]; exists {
		return nil, storedErr
	}
	return c.retentionUseCase, nil
}

// initRetentionRepository creates the retention repository based on the database driver.
func (c *Container) initRetentionRepository() (retentionUsecase.RetentionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for retention repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return retentionRepository.NewPostgreSQLRetentionRepository(db), nil
	case "mysql":
		return retentionRepository.NewMySQLRetentionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRetentionUseCase creates the retention use case with the default policy.
func (c *Container) initRetentionUseCase() (retentionUsecase.RetentionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for retention use case: %w", err)
	}

	retentionRepo, err := c.RetentionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get retention repository for retention use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for retention use case: %w", err)
	}

	baseUseCase := retentionUsecase.NewRetentionUseCase(
		txManager,
		retentionRepo,
		retentionDomain.NewPolicy(),
		c.config.RetentionScanBatchSize,
	)

	return retentionUsecase.NewRetentionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}
