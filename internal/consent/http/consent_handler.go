// Package http provides HTTP handlers for consent management operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
	"github.com/journeymanhq/dataprotect/internal/consent/http/dto"
	consentUseCase "github.com/journeymanhq/dataprotect/internal/consent/usecase"
	"github.com/journeymanhq/dataprotect/internal/httputil"
	customValidation "github.com/journeymanhq/dataprotect/internal/validation"
)

// ConsentHandler handles HTTP requests for consent management operations.
type ConsentHandler struct {
	consentUseCase consentUseCase.ConsentUseCase
	logger         *slog.Logger
}

// NewConsentHandler creates a new consent handler with required dependencies.
func NewConsentHandler(useCase consentUseCase.ConsentUseCase, logger *slog.Logger) *ConsentHandler {
	return &ConsentHandler{
		consentUseCase: useCase,
		logger:         logger,
	}
}

// RecordHandler records a consent decision for a user.
// POST /v1/consents/:user_id - Returns 201 Created with the stored record.
// Client metadata missing from the body is captured from the request itself.
func (h *ConsentHandler) RecordHandler(c *gin.Context) {
	userID := c.Param("user_id")

	var req dto.RecordConsentRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if req.IPAddress == "" {
		req.IPAddress = c.ClientIP()
	}
	if req.UserAgent == "" {
		req.UserAgent = c.Request.UserAgent()
	}

	input := consentUseCase.RecordConsentInput{
		UserID:      userID,
		ConsentType: req.ConsentType,
		Status:      req.Status,
		Purpose:     req.Purpose,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
	}

	consent, err := h.consentUseCase.Record(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapConsentToResponse(consent))
}

// ListHandler lists all consent records for a user.
// GET /v1/consents/:user_id - Returns 200 OK with the user's records.
func (h *ConsentHandler) ListHandler(c *gin.Context) {
	userID := c.Param("user_id")

	consents, err := h.consentUseCase.List(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConsentsToListResponse(consents))
}

// RevokeHandler revokes a consent decision.
// DELETE /v1/consents/:user_id/:consent_type - Returns 200 OK with the revoked record.
func (h *ConsentHandler) RevokeHandler(c *gin.Context) {
	userID := c.Param("user_id")

	consentType, err := consentDomain.ParseConsentType(c.Param("consent_type"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid consent type: must be one of essential, analytics, marketing, third_party"),
			h.logger)
		return
	}

	consent, err := h.consentUseCase.Revoke(c.Request.Context(), userID, consentType)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConsentToResponse(consent))
}
