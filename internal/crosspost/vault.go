package crosspost

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/blognest/blognest-backend/internal/common"
)

// maskChar replaces interior token characters for display
const maskChar = "*"

// Vault encrypts platform API tokens at rest with AES-256-GCM.
// The key is derived by hashing the configured secret, so rotating the
// secret invalidates every stored blob at once.
type Vault struct {
	aead cipher.AEAD
}

// NewVault creates a vault from the configured secret
func NewVault(secret string) (*Vault, error) {
	if secret == "" {
		return nil, fmt.Errorf("crosspost secret is empty")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt seals plaintext under a fresh random nonce and returns
// base64(nonce || ciphertext) for storage. Nonces are never reused.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a blob produced by Encrypt. Malformed, truncated or
// tampered blobs fail with common.ErrDecryptionFailure.
func (v *Vault) Decrypt(blob string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", common.ErrDecryptionFailure)
	}

	nonceSize := v.aead.NonceSize()
	if len(raw) <= nonceSize {
		return "", fmt.Errorf("%w: blob too short", common.ErrDecryptionFailure)
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrDecryptionFailure, err)
	}

	return string(plaintext), nil
}

// MaskToken hides the interior of a token for display, keeping the first
// and last visible characters. Tokens too short to keep anything visible
// are masked entirely. Display only, never usable for auth.
func MaskToken(token string, visible int) string {
	runes := []rune(token)
	if len(runes) <= 2*visible {
		return strings.Repeat(maskChar, len(runes))
	}
	return string(runes[:visible]) +
		strings.Repeat(maskChar, len(runes)-2*visible) +
		string(runes[len(runes)-visible:])
}
