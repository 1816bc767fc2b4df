// Package dto contains request and response types for DSAR endpoints.
package dto

import (
	validation "github.com/jellydator/validation"
)

// RectifyRequest represents a rectification request. Only allow-listed
// fields are accepted; nil means the field is left untouched.
type RectifyRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// Validate validates the rectification request.
func (r RectifyRequest) Validate() error {
	if r.Username == nil && r.Email == nil {
		return validation.NewError(
			"validation_required",
			"at least one of username or email must be provided",
		)
	}

	return nil
}
