// Package domain defines the types exchanged with the OneTrust consent
// platform: mirrored consent receipts, DSAR requests, and inbound webhook
// events.
package domain

import "time"

// Webhook event types dispatched by the consent platform.
const (
	EventConsentGranted = "consent.granted"
	EventConsentUpdated = "consent.updated"
	EventConsentRevoked = "consent.revoked"
	EventDSARSubmitted  = "dsar.submitted"
)

// WebhookActor is the audit log actor recorded for inbound webhook events.
const WebhookActor = "onetrust"

// WebhookEvent is an inbound event from the consent platform.
type WebhookEvent struct {
	EventType   string `json:"event_type"`
	RequestID   string `json:"request_id"`
	UserID      string `json:"user_id"`
	ConsentType string `json:"consent_type,omitempty"`
	Status      string `json:"status,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
	RequestType string `json:"request_type,omitempty"`
}

// ConsentReceipt is a consent receipt as returned by the platform API.
type ConsentReceipt struct {
	ReceiptID   string    `json:"receipt_id"`
	Identifier  string    `json:"identifier"`
	ConsentType string    `json:"consent_type"`
	Granted     bool      `json:"granted"`
	Purpose     string    `json:"purpose,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DSARRequest is a data subject access request created on the platform.
type DSARRequest struct {
	RequestID   string `json:"request_id"`
	Identifier  string `json:"identifier"`
	RequestType string `json:"request_type"`
	Status      string `json:"status"`
}
