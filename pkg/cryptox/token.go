package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Token sizes in raw bytes.
const (
	TokenSize128 = 16
	TokenSize256 = 32
)

// GenerateToken returns size bytes of crypto/rand as base64url without
// padding.
func GenerateToken(size int) (string, error) {
	if size < TokenSize128 {
		return "", fmt.Errorf("token size must be at least %d bytes, got %d", TokenSize128, size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken is the SHA-256 of token, base64url encoded (43 chars).
// Only fingerprints are persisted; the raw token leaves the process once.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
