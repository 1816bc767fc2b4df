// Package http provides the HTTP endpoint for inbound OneTrust webhooks.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	"github.com/journeymanhq/dataprotect/internal/httputil"
	onetrustDomain "github.com/journeymanhq/dataprotect/internal/onetrust/domain"
	"github.com/journeymanhq/dataprotect/internal/onetrust/service"
	onetrustUseCase "github.com/journeymanhq/dataprotect/internal/onetrust/usecase"
)

// Signature headers checked on inbound webhooks, in order.
const (
	SignatureHeader         = "X-OneTrust-Signature"
	FallbackSignatureHeader = "X-Webhook-Signature"
)

// WebhookHandler handles inbound webhook deliveries from the consent platform.
type WebhookHandler struct {
	webhookUseCase onetrustUseCase.WebhookUseCase
	webhookSecret  string
	logger         *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with required dependencies.
func NewWebhookHandler(
	useCase onetrustUseCase.WebhookUseCase,
	webhookSecret string,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		webhookUseCase: useCase,
		webhookSecret:  webhookSecret,
		logger:         logger,
	}
}

// ReceiveHandler verifies and dispatches one webhook delivery.
// POST /v1/onetrust/webhook - Returns 200 OK once the event is applied.
// The signature covers the raw body, so it is read before JSON binding.
func (h *WebhookHandler) ReceiveHandler(c *gin.Context) {
	if h.webhookSecret == "" {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrUnavailable, "webhook secret not configured"),
			h.logger)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		httputil.HandleBadRequestGin(c, apperrors.Wrap(err, "failed to read webhook body"), h.logger)
		return
	}

	signature := c.GetHeader(SignatureHeader)
	if signature == "" {
		signature = c.GetHeader(FallbackSignatureHeader)
	}

	if !service.VerifySignature(body, signature, h.webhookSecret) {
		httputil.HandleErrorGin(c, onetrustDomain.ErrInvalidSignature, h.logger)
		return
	}

	var event onetrustDomain.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		httputil.HandleBadRequestGin(c, apperrors.Wrap(err, "failed to parse webhook event"), h.logger)
		return
	}

	if event.EventType == "" {
		httputil.HandleValidationErrorGin(c,
			apperrors.Wrap(apperrors.ErrInvalidInput, "event_type is required"),
			h.logger)
		return
	}

	if err := h.webhookUseCase.Process(c.Request.Context(), event); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "processed",
		"event_type": event.EventType,
	})
}
