// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	cryptoDomain "github.com/journeymanhq/dataprotect/internal/crypto/domain"
	cryptoService "github.com/journeymanhq/dataprotect/internal/crypto/service"

	"github.com/journeymanhq/dataprotect/internal/config"
	"github.com/journeymanhq/dataprotect/internal/database"
	"github.com/journeymanhq/dataprotect/internal/http"
	"github.com/journeymanhq/dataprotect/internal/metrics"

	auditHTTP "github.com/journeymanhq/dataprotect/internal/audit/http"
	auditUsecase "github.com/journeymanhq/dataprotect/internal/audit/usecase"
	consentHTTP "github.com/journeymanhq/dataprotect/internal/consent/http"
	consentUsecase "github.com/journeymanhq/dataprotect/internal/consent/usecase"
	gdprHTTP "github.com/journeymanhq/dataprotect/internal/gdpr/http"
	gdprUsecase "github.com/journeymanhq/dataprotect/internal/gdpr/usecase"
	onetrustHTTP "github.com/journeymanhq/dataprotect/internal/onetrust/http"
	onetrustService "github.com/journeymanhq/dataprotect/internal/onetrust/service"
	onetrustUsecase "github.com/journeymanhq/dataprotect/internal/onetrust/usecase"
	retentionUsecase "github.com/journeymanhq/dataprotect/internal/retention/usecase"
	userUsecase "github.com/journeymanhq/dataprotect/internal/user/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	fieldCipher     *cryptoService.FieldCipher

	// Managers
	txManager database.TxManager

	// Repositories
	userRepo      userUsecase.UserRepository
	consentRepo   consentUsecase.ConsentRepository
	auditRepo     auditUsecase.AuditLogRepository
	retentionRepo retentionUsecase.RetentionRepository
	gdprRepo      gdprUsecase.GDPRRepository

	// Integrations
	oneTrustClient *onetrustService.Client

	// Use Cases
	userUseCase           userUsecase.UseCase
	consentUseCase        consentUsecase.ConsentUseCase
	webhookConsentUseCase consentUsecase.ConsentUseCase
	auditLogUseCase       auditUsecase.AuditLogUseCase
	retentionUseCase      retentionUsecase.RetentionUseCase
	gdprUseCase           gdprUsecase.GDPRUseCase
	webhookUseCase        onetrustUsecase.WebhookUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags for thread-safety
	loggerInit                sync.Once
	dbInit                    sync.Once
	txManagerInit             sync.Once
	metricsProviderInit       sync.Once
	businessMetricsInit       sync.Once
	fieldCipherInit           sync.Once
	userRepoInit              sync.Once
	consentRepoInit           sync.Once
	auditRepoInit             sync.Once
	retentionRepoInit         sync.Once
	gdprRepoInit              sync.Once
	oneTrustClientInit        sync.Once
	userUseCaseInit           sync.Once
	consentUseCaseInit        sync.Once
	webhookConsentUseCaseInit sync.Once
	auditLogUseCaseInit       sync.Once
	retentionUseCaseInit      sync.Once
	gdprUseCaseInit           sync.Once
	webhookUseCaseInit        sync.Once
	httpServerInit            sync.Once
	metricsServerInit         sync.Once
	initErrors                map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.initErrors["db"] = err
			return
		}
		c.db = db
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["txManager"] = err
			return
		}
		c.txManager = database.NewTxManager(db)
	})
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled, so use cases stay decorated either way.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = bm
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// FieldCipher returns the field encryption cipher.
// Construction fails fast when no key source is configured.
func (c *Container) FieldCipher() (*cryptoService.FieldCipher, error) {
	c.fieldCipherInit.Do(func() {
		cipher, err := c.initFieldCipher()
		if err != nil {
			c.initErrors["fieldCipher"] = err
			return
		}
		c.fieldCipher = cipher
	})
	if storedErr, exists := c.initErrors["fieldCipher"]; exists {
		return nil, storedErr
	}
	return c.fieldCipher, nil
}

// HTTPServer returns the API server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Close releases container resources: the database connection and the
// metrics provider. Servers are shut down by their owners before this.
func (c *Container) Close(ctx context.Context) error {
	var errs []error

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(errs...)
}

// initLogger creates the structured JSON logger from configuration.
func (c *Container) initLogger() *slog.Logger {
	var level slog.Level
	switch c.config.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// initDB creates and verifies the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	return database.Connect(context.Background(), database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
}

// initFieldCipher resolves the encryption passphrase and builds the cipher.
// When a KMS key URI and wrapped ciphertext are configured, the passphrase
// is unwrapped through the KMS; otherwise ENCRYPTION_KEY is used directly.
func (c *Container) initFieldCipher() (*cryptoService.FieldCipher, error) {
	passphrase := []byte(c.config.EncryptionKey)

	if c.config.KMSKeyURI != "" && c.config.EncryptionKeyCiphertext != "" {
		unwrapped, err := cryptoService.UnwrapPassphrase(
			context.Background(),
			cryptoService.NewKMSService(),
			c.config.KMSKeyURI,
			c.config.EncryptionKeyCiphertext,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap encryption passphrase: %w", err)
		}
		passphrase = unwrapped
	}
	defer cryptoDomain.Zero(passphrase)

	return cryptoService.NewFieldCipherFromPassphrase(passphrase, []byte(c.config.EncryptionSalt))
}

// initHTTPServer creates the API server with all its route handlers.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	consentUC, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for http server: %w", err)
	}

	gdprUC, err := c.GDPRUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get gdpr use case for http server: %w", err)
	}

	auditUC, err := c.AuditLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit log use case for http server: %w", err)
	}

	webhookUC, err := c.WebhookUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get webhook use case for http server: %w", err)
	}

	handlers := http.Handlers{
		Consent:  consentHTTP.NewConsentHandler(consentUC, logger),
		GDPR:     gdprHTTP.NewGDPRHandler(gdprUC, logger),
		AuditLog: auditHTTP.NewAuditLogHandler(auditUC, logger),
		Webhook: onetrustHTTP.NewWebhookHandler(
			webhookUC,
			c.config.OneTrustWebhookSecret,
			logger,
		),
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	if provider != nil {
		return http.NewServer(c.config, db, logger, handlers, provider.MeterProvider()), nil
	}
	return http.NewServer(c.config, db, logger, handlers, nil), nil
}
