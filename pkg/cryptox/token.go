package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Token sizes in bytes of entropy.
const (
	TokenSize128 = 16 // lock ownership tokens
	TokenSize256 = 32 // pending login tokens handed to clients
)

var tokenEncoding = base64.RawURLEncoding

// GenerateToken returns size random bytes as unpadded base64url, safe to put
// in JSON bodies and URLs.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random source: %w", err)
	}
	return tokenEncoding.EncodeToString(buf), nil
}

// FingerprintToken is the SHA-256 of token in the same encoding. Stores
// index bearer tokens by fingerprint and never see the token itself.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return tokenEncoding.EncodeToString(sum[:])
}
