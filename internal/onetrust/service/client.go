package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/journeymanhq/dataprotect/internal/errors"
	onetrustDomain "github.com/journeymanhq/dataprotect/internal/onetrust/domain"
)

// maxResponseBody bounds how much of an API response is read.
const maxResponseBody = 1 << 20

// ClientConfig holds the settings for the OneTrust API client.
type ClientConfig struct {
	Enabled  bool
	BaseURL  string
	APIKey   string
	TenantID string
	Timeout  time.Duration
}

// Client talks to the OneTrust consent platform. It is safe for concurrent
// use. An unconfigured client is still constructed; Enabled() gates every
// call so consent decisions never depend on the integration.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new OneTrust API client.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Enabled reports whether consent decisions are mirrored to the platform.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled && c.cfg.APIKey != "" && c.cfg.BaseURL != ""
}

// RecordConsent mirrors a consent decision as a platform receipt.
// Mirroring is best-effort; failures are logged here and reported to the
// caller, which discards them.
func (c *Client) RecordConsent(
	ctx context.Context,
	userID, consentType string,
	granted bool,
	purpose string,
) error {
	if !c.Enabled() {
		return onetrustDomain.ErrNotConfigured
	}

	payload := map[string]any{
		"identifier":   userID,
		"consent_type": consentType,
		"granted":      granted,
		"purpose":      purpose,
		"tenant_id":    c.cfg.TenantID,
	}

	if err := c.doRequest(ctx, http.MethodPost, "/consent/v1/receipts", payload, nil); err != nil {
		c.logger.Warn("onetrust consent mirror failed",
			slog.String("consent_type", consentType),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// RevokeConsent mirrors a consent revocation.
func (c *Client) RevokeConsent(ctx context.Context, userID, consentType string) error {
	if !c.Enabled() {
		return onetrustDomain.ErrNotConfigured
	}

	payload := map[string]any{
		"consent_type": consentType,
		"tenant_id":    c.cfg.TenantID,
	}

	path := fmt.Sprintf("/consent/v1/users/%s/revoke", userID)
	if err := c.doRequest(ctx, http.MethodPost, path, payload, nil); err != nil {
		c.logger.Warn("onetrust revocation mirror failed",
			slog.String("consent_type", consentType),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// CreateDSARRequest opens a data subject access request on the platform.
func (c *Client) CreateDSARRequest(
	ctx context.Context,
	userID, email, requestType string,
) (*onetrustDomain.DSARRequest, error) {
	if !c.Enabled() {
		return nil, onetrustDomain.ErrNotConfigured
	}

	payload := map[string]any{
		"identifier":   userID,
		"email":        email,
		"request_type": requestType,
		"tenant_id":    c.cfg.TenantID,
	}

	var request onetrustDomain.DSARRequest
	if err := c.doRequest(ctx, http.MethodPost, "/dsar/v2/requests", payload, &request); err != nil {
		return nil, err
	}

	return &request, nil
}

// GetConsentReceipt retrieves a consent receipt from the platform.
func (c *Client) GetConsentReceipt(
	ctx context.Context,
	receiptID string,
) (*onetrustDomain.ConsentReceipt, error) {
	if !c.Enabled() {
		return nil, onetrustDomain.ErrNotConfigured
	}

	var receipt onetrustDomain.ConsentReceipt
	path := fmt.Sprintf("/consent/v1/receipts/%s", receiptID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &receipt); err != nil {
		return nil, err
	}

	return &receipt, nil
}

// doRequest performs one authenticated API call, decoding the response body
// into out when out is non-nil.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	payload any,
	out any,
) error {
	var bodyReader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal onetrust request")
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, bodyReader)
	if err != nil {
		return apperrors.Wrap(err, "failed to create onetrust request")
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, "failed to call onetrust api")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("onetrust api returned status %d", resp.StatusCode)
	}

	if out != nil {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		if err != nil {
			return apperrors.Wrap(err, "failed to read onetrust response")
		}
		if err := json.Unmarshal(body, out); err != nil {
			return apperrors.Wrap(err, "failed to decode onetrust response")
		}
	}

	return nil
}
