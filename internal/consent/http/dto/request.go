// Package dto provides data transfer objects for consent HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/journeymanhq/dataprotect/internal/validation"
)

// RecordConsentRequest contains the parameters for recording a consent decision.
// The user is identified by the path parameter, not the body.
type RecordConsentRequest struct {
	ConsentType string `json:"consent_type"`
	Status      string `json:"status"`
	Purpose     string `json:"purpose"`
	IPAddress   string `json:"ip_address"`
	UserAgent   string `json:"user_agent"`
}

// Validate checks if the record consent request is valid.
func (r *RecordConsentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ConsentType,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Status,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Purpose,
			validation.Length(0, 500),
		),
	)
}
