package app

import (
	"fmt"

	gdprRepository "github.com/journeymanhq/dataprotect/internal/gdpr/repository"
	gdprUsecase "github.com/journeymanhq/dataprotect/internal/gdpr/usecase"
)

// GDPRRepository returns the data subject request repository based on database driver.
func (c *Container) GDPRRepository() (gdprUsecase.GDPRRepository, error) {
	c.gdprRepoInit.Do(func() {
		repo, err := c.initGDPRRepository()
		if err != nil {
			c.initErrors["gdprRepository"] = err
			return
		}
		c.gdprRepo = repo
	})
	if storedErr, exists := c.initErrors["gdprRepository"]; exists {
		return nil, storedErr
	}
	return c.gdprRepo, nil
}

// GDPRUseCase returns the data subject request use case.
func (c *Container) GDPRUseCase() (gdprUsecase.GDPRUseCase, error) {
	c.gdprUseCaseInit.Do(func() {
		useCase, err := c.initGDPRUseCase()
		if err != nil {
			c.initErrors["gdprUseCase"] = err
			return
		}
		c.gdprUseCase = useCase
	})
	if storedErr, exists := c.initErrors["gdprUseCase"]; exists {
		return nil, storedErr
	}
	return c.gdprUseCase, nil
}

// initGDPRRepository creates the data subject request repository based on the database driver.
func (c *Container) initGDPRRepository() (gdprUsecase.GDPRRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for gdpr repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return gdprRepository.NewPostgreSQLGDPRRepository(db), nil
	case "mysql":
		return gdprRepository.NewMySQLGDPRRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initGDPRUseCase creates the data subject request use case with all its dependencies.
func (c *Container) initGDPRUseCase() (gdprUsecase.GDPRUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for gdpr use case: %w", err)
	}

	gdprRepo, err := c.GDPRRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get gdpr repository for gdpr use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for gdpr use case: %w", err)
	}

	consentUseCase, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for gdpr use case: %w", err)
	}

	auditLogUseCase, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for gdpr use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for gdpr use case: %w", err)
	}

	baseUseCase := gdprUsecase.NewGDPRUseCase(
		txManager,
		gdprRepo,
		userRepo,
		consentUseCase,
		auditLogUseCase,
	)

	return gdprUsecase.NewGDPRUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}
