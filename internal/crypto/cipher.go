package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// FieldCipher encrypts and decrypts individual text fields with AES-GCM.
// Ciphertexts are hex-encoded with the nonce prepended. A FieldCipher built
// without a key passes values through unchanged, so callers never branch on
// whether encryption is enabled.
type FieldCipher struct {
	gcm cipher.AEAD
}

// Plaintext returns a pass-through cipher for stores without encryption.
func Plaintext() *FieldCipher {
	return &FieldCipher{}
}

// NewFieldCipher builds a cipher around a 256-bit key.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}

	return &FieldCipher{gcm: gcm}, nil
}

// Enabled reports whether the cipher actually encrypts.
func (c *FieldCipher) Enabled() bool {
	return c.gcm != nil
}

// Encrypt seals a single field. Empty strings are sealed like any other
// value so every stored field round-trips as a string.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	if c.gcm == nil {
		return plaintext, nil
	}

	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt is the inverse of Encrypt. Any malformed or unauthenticated
// ciphertext fails with ErrDecryptFailed.
func (c *FieldCipher) Decrypt(value string) (string, error) {
	if c.gcm == nil {
		return value, nil
	}

	sealed, err := hex.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("%w: decode hex: %v", ErrDecryptFailed, err)
	}

	nonceSize := c.gcm.NonceSize()
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptFailed)
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	return string(plaintext), nil
}
