package dto

import (
	"time"

	consentDomain "github.com/journeymanhq/dataprotect/internal/consent/domain"
)

// ConsentResponse represents a consent record in API responses.
// Encrypted fields are returned decrypted; the ciphertext never leaves storage.
type ConsentResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	ConsentType string     `json:"consent_type"`
	Status      string     `json:"status"`
	Purpose     string     `json:"purpose,omitempty"`
	IPAddress   string     `json:"ip_address,omitempty"`
	UserAgent   string     `json:"user_agent,omitempty"`
	GrantedAt   *time.Time `json:"granted_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MapConsentToResponse converts a domain consent to an API response.
func MapConsentToResponse(consent *consentDomain.Consent) ConsentResponse {
	return ConsentResponse{
		ID:          consent.ID.String(),
		UserID:      consent.UserID,
		ConsentType: consent.Type.String(),
		Status:      consent.Status.String(),
		Purpose:     consent.Purpose,
		IPAddress:   consent.IPAddress,
		UserAgent:   consent.UserAgent,
		GrantedAt:   consent.GrantedAt,
		RevokedAt:   consent.RevokedAt,
		CreatedAt:   consent.CreatedAt,
		UpdatedAt:   consent.UpdatedAt,
	}
}

// ListConsentsResponse represents a user's consent records in API responses.
type ListConsentsResponse struct {
	Data []ConsentResponse `json:"data"`
}

// MapConsentsToListResponse converts a slice of domain consents to a list API response.
func MapConsentsToListResponse(consents []*consentDomain.Consent) ListConsentsResponse {
	consentResponses := make([]ConsentResponse, 0, len(consents))
	for _, consent := range consents {
		consentResponses = append(consentResponses, MapConsentToResponse(consent))
	}
	return ListConsentsResponse{
		Data: consentResponses,
	}
}
