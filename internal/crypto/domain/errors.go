package domain

import (
	"github.com/journeymanhq/dataprotect/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrEncryptionKeyNotSet indicates no encryption passphrase is available.
	//
	// The field cipher requires a passphrase from either the ENCRYPTION_KEY
	// environment variable or an explicit argument. Without one the component
	// cannot serve any request, so construction fails immediately instead of
	// deferring the error to first use.
	//
	// HTTP Status: 503 Service Unavailable
	ErrEncryptionKeyNotSet = errors.Wrap(errors.ErrUnavailable, "encryption key not set")

	// ErrInvalidKeyMaterial indicates the derived or supplied key material
	// does not decode to exactly 32 bytes.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "invalid key material")

	// ErrDecryptionFailed indicates an authenticated decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong decryption key used (including a different derivation salt)
	//   - Ciphertext has been tampered with (authentication failure)
	//   - Truncated or malformed token
	//
	// For security reasons, the specific cause is not disclosed to prevent
	// information leakage that could aid attackers.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")
)
