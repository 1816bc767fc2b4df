package domain

import "context"

// KMSKeeper abstracts a KMS-backed decryption keeper (gocloud.dev *secrets.Keeper
// implements this interface). Used to unwrap the encryption passphrase at startup
// when it is stored as KMS-wrapped ciphertext instead of plaintext configuration.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
