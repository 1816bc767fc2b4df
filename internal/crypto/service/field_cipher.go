package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	cryptoDomain "github.com/journeymanhq/dataprotect/internal/crypto/domain"
)

const (
	// tokenVersion is the first byte of every ciphertext token.
	tokenVersion = 0x01

	// tokenHeaderLength is version (1) + big-endian unix timestamp (8) + nonce (12).
	tokenHeaderLength = 1 + 8 + gcmNonceSize

	gcmNonceSize = 12
	gcmTagSize   = 16
)

// FieldCipher performs authenticated encryption of individual string fields
// using AES-256-GCM with a key derived from the operator passphrase.
//
// The ciphertext is a single self-describing token:
//
//	base64url( version(1) || timestamp(8) || nonce(12) || ciphertext+tag )
//
// The embedded nonce means decryption needs only the key, never external
// nonce bookkeeping. The format is opaque to callers; only Decrypt should
// ever parse it.
//
// Thread safety: the cipher holds only immutable state after construction and
// is safe for concurrent use from multiple goroutines. Each encryption draws a
// fresh nonce from crypto/rand.
type FieldCipher struct {
	aead cipher.AEAD
	now  func() time.Time
}

// NewFieldCipher creates a field cipher from base64-URL-safe key material as
// produced by DeriveKeyMaterial or GenerateKey.
//
// Returns ErrInvalidKeyMaterial if the material does not decode to exactly
// 32 bytes.
func NewFieldCipher(keyMaterial string) (*FieldCipher, error) {
	key, err := base64.URLEncoding.DecodeString(keyMaterial)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidKeyMaterial, err)
	}
	defer cryptoDomain.Zero(key)

	if len(key) != derivedKeyLength {
		return nil, fmt.Errorf(
			"%w: key must be %d bytes, got %d",
			cryptoDomain.ErrInvalidKeyMaterial,
			derivedKeyLength,
			len(key),
		)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &FieldCipher{aead: aead, now: time.Now}, nil
}

// NewFieldCipherFromPassphrase derives key material from the passphrase and
// salt, then builds the cipher. This is the production construction path:
// the passphrase comes from ENCRYPTION_KEY and the failure is surfaced at
// startup, not deferred to the first encrypt call.
func NewFieldCipherFromPassphrase(passphrase, salt []byte) (*FieldCipher, error) {
	keyMaterial, err := DeriveKeyMaterial(passphrase, salt)
	if err != nil {
		return nil, err
	}

	return NewFieldCipher(keyMaterial)
}

// Encrypt encrypts a plaintext field and returns the encoded token.
//
// The empty string short-circuits to an empty string. Callers depend on this
// contract: an unset optional field stays unset instead of becoming a token
// that decrypts to "".
func (f *FieldCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, gcmNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	header := make([]byte, tokenHeaderLength)
	header[0] = tokenVersion
	binary.BigEndian.PutUint64(header[1:9], uint64(f.now().Unix()))
	copy(header[9:], nonce)

	// The header is authenticated as associated data so a flipped version or
	// timestamp byte fails verification like any ciphertext mutation.
	token := make([]byte, 0, tokenHeaderLength+len(plaintext)+gcmTagSize)
	token = append(token, header...)
	token = f.aead.Seal(token, nonce, []byte(plaintext), header)

	return base64.URLEncoding.EncodeToString(token), nil
}

// Decrypt authenticates and decrypts a token produced by Encrypt.
//
// The empty string short-circuits to an empty string, mirroring Encrypt. Any
// malformed, truncated, tampered, or foreign-key token fails with
// ErrDecryptionFailed; garbage plaintext is never returned.
func (f *FieldCipher) Decrypt(token string) (string, error) {
	if token == "" {
		return "", nil
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	if len(raw) < tokenHeaderLength+gcmTagSize {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	if raw[0] != tokenVersion {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	header := raw[:tokenHeaderLength]
	nonce := raw[9:tokenHeaderLength]
	ciphertext := raw[tokenHeaderLength:]

	plaintext, err := f.aead.Open(nil, nonce, ciphertext, header)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}

// GenerateKey produces fresh random key material suitable for direct use as an
// ENCRYPTION_KEY configuration value. It is independent of passphrase
// derivation: an operator convenience for bootstrapping a new deployment.
func GenerateKey() (string, error) {
	key := make([]byte, derivedKeyLength)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	defer cryptoDomain.Zero(key)

	return base64.URLEncoding.EncodeToString(key), nil
}
