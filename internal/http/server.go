package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	auditHTTP "github.com/journeymanhq/dataprotect/internal/audit/http"
	"github.com/journeymanhq/dataprotect/internal/config"
	consentHTTP "github.com/journeymanhq/dataprotect/internal/consent/http"
	gdprHTTP "github.com/journeymanhq/dataprotect/internal/gdpr/http"
	"github.com/journeymanhq/dataprotect/internal/metrics"
	onetrustHTTP "github.com/journeymanhq/dataprotect/internal/onetrust/http"
)

// Handlers groups the API route handlers the server mounts.
type Handlers struct {
	Consent  *consentHTTP.ConsentHandler
	GDPR     *gdprHTTP.GDPRHandler
	AuditLog *auditHTTP.AuditLogHandler
	Webhook  *onetrustHTTP.WebhookHandler
}

// Server is the gin API server.
type Server struct {
	server        *http.Server
	db            *sql.DB
	cfg           *config.Config
	logger        *slog.Logger
	handlers      Handlers
	meterProvider metric.MeterProvider
}

// NewServer creates the API server. meterProvider may be nil when metrics
// are disabled.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
	handlers Handlers,
	meterProvider metric.MeterProvider,
) *Server {
	s := &Server{
		db:            db,
		cfg:           cfg,
		logger:        logger,
		handlers:      handlers,
		meterProvider: meterProvider,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      s.setupRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRouter builds the gin engine with middleware and routes.
func (s *Server) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(
		s.cfg.CORSEnabled, s.cfg.CORSAllowOrigins, s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if s.meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(s.meterProvider, s.cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	// Consent management
	consents := v1.Group("/consents")
	consents.POST("/:user_id", s.handlers.Consent.RecordHandler)
	consents.GET("/:user_id", s.handlers.Consent.ListHandler)
	consents.DELETE("/:user_id/:consent_type", s.handlers.Consent.RevokeHandler)

	// Webhook and admin endpoints are unauthenticated or secret-gated,
	// so they carry per-IP rate limiting.
	var rateLimit gin.HandlerFunc
	if s.cfg.RateLimitEnabled {
		rateLimit = IPRateLimitMiddleware(
			s.cfg.RateLimitRequestsPerSec,
			s.cfg.RateLimitBurst,
			s.logger,
		)
	}

	// DSAR endpoints, admin only
	gdpr := v1.Group("/gdpr")
	if rateLimit != nil {
		gdpr.Use(rateLimit)
	}
	gdpr.Use(gdprHTTP.AdminSecretMiddleware(s.cfg.AdminAPISecret, s.logger))
	gdpr.GET("/export/:user_id", s.handlers.GDPR.ExportHandler)
	gdpr.DELETE("/delete/:user_id", s.handlers.GDPR.AnonymizeHandler)
	gdpr.PATCH("/rectify/:user_id", s.handlers.GDPR.RectifyHandler)

	// Audit trail, admin only
	auditLogs := v1.Group("/audit-logs")
	if rateLimit != nil {
		auditLogs.Use(rateLimit)
	}
	auditLogs.Use(gdprHTTP.AdminSecretMiddleware(s.cfg.AdminAPISecret, s.logger))
	auditLogs.GET("", s.handlers.AuditLog.ListHandler)

	// Inbound consent platform webhooks, HMAC verified by the handler
	webhook := v1.Group("/onetrust")
	if rateLimit != nil {
		webhook.Use(rateLimit)
	}
	webhook.POST("/webhook", s.handlers.Webhook.ReceiveHandler)

	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// the database connection.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	ready := true
	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
