// Package http provides HTTP handlers for data subject access requests.
package http

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	"github.com/journeymanhq/dataprotect/internal/gdpr/http/dto"
	gdprUseCase "github.com/journeymanhq/dataprotect/internal/gdpr/usecase"
	"github.com/journeymanhq/dataprotect/internal/httputil"
	customValidation "github.com/journeymanhq/dataprotect/internal/validation"
)

// AdminSecretHeader carries the shared secret for admin-only DSAR operations.
const AdminSecretHeader = "X-Admin-Secret"

// GDPRHandler handles HTTP requests for data subject access requests.
type GDPRHandler struct {
	gdprUseCase gdprUseCase.GDPRUseCase
	logger      *slog.Logger
}

// NewGDPRHandler creates a new DSAR handler with required dependencies.
func NewGDPRHandler(useCase gdprUseCase.GDPRUseCase, logger *slog.Logger) *GDPRHandler {
	return &GDPRHandler{
		gdprUseCase: useCase,
		logger:      logger,
	}
}

// ExportHandler returns everything held for a user.
// GET /v1/gdpr/export/:user_id - Returns 200 OK with the full data set.
func (h *GDPRHandler) ExportHandler(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid user id: %w", err), h.logger)
		return
	}

	result, err := h.gdprUseCase.Export(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapExportToResponse(result))
}

// AnonymizeHandler anonymizes a user for the right to be forgotten.
// DELETE /v1/gdpr/delete/:user_id - Returns 200 OK with the erasure outcome.
func (h *GDPRHandler) AnonymizeHandler(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid user id: %w", err), h.logger)
		return
	}

	result, err := h.gdprUseCase.Anonymize(c.Request.Context(), userID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAnonymizeToResponse(result))
}

// RectifyHandler corrects allow-listed user fields.
// PATCH /v1/gdpr/rectify/:user_id - Returns 200 OK with the updated user.
func (h *GDPRHandler) RectifyHandler(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid user id: %w", err), h.logger)
		return
	}

	var req dto.RectifyRequest

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

	input := gdprUseCase.RectifyInput{
		Username: req.Username,
		Email:    req.Email,
	}

	user, err := h.gdprUseCase.Rectify(c.Request.Context(), userID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// AdminSecretMiddleware authenticates admin-only DSAR routes with a shared
// secret header. Comparison is constant time. An empty configured secret
// disables the routes entirely rather than leaving them open.
func AdminSecretMiddleware(secret string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			httputil.HandleErrorGin(c,
				apperrors.Wrap(apperrors.ErrUnavailable, "admin secret not configured"),
				logger)
			c.Abort()
			return
		}

		provided := c.GetHeader(AdminSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			httputil.HandleErrorGin(c,
				apperrors.Wrap(apperrors.ErrUnauthorized, "invalid admin secret"),
				logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
