// Package service provides the field-level encryption primitives: passphrase
// key derivation and the authenticated field cipher.
package service

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/journeymanhq/dataprotect/internal/crypto/domain"
)

const (
	// pbkdf2Iterations is the PBKDF2 iteration count. Changing it breaks
	// decryption of all previously encrypted fields.
	pbkdf2Iterations = 100000

	// derivedKeyLength is the derived key size in bytes (AES-256).
	derivedKeyLength = 32
)

// DefaultSalt is the historical application-wide derivation salt. Every
// deployment shared this value, which weakens key-derivation diversity; new
// deployments may override it via ENCRYPTION_SALT, but an existing deployment
// must keep the salt its data was encrypted under.
const DefaultSalt = "journeyman_salt"

// DeriveKeyMaterial stretches an operator-supplied passphrase into the key
// material consumed by the field cipher.
//
// The derivation is PBKDF2-HMAC-SHA256 with a fixed salt, 100,000 iterations
// and a 32-byte output, encoded base64-URL-safe. It is deterministic: the same
// passphrase and salt always yield bit-identical key material, so data
// encrypted in one process session can be decrypted in a later one.
//
// An empty passphrase returns ErrEncryptionKeyNotSet. An empty salt falls back
// to DefaultSalt.
func DeriveKeyMaterial(passphrase, salt []byte) (string, error) {
	if len(passphrase) == 0 {
		return "", cryptoDomain.ErrEncryptionKeyNotSet
	}

	if len(salt) == 0 {
		salt = []byte(DefaultSalt)
	}

	key := pbkdf2.Key(passphrase, salt, pbkdf2Iterations, derivedKeyLength, sha256.New)
	defer cryptoDomain.Zero(key)

	return base64.URLEncoding.EncodeToString(key), nil
}
