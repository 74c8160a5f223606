package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const signingKeyBytes = 32

// GenerateKey produces a random 256-bit HMAC signing key, base64 encoded.
// It is called once at startup when no key is configured; the process must
// not serve requests without a signing key, so failure here is fatal to the
// caller.
func GenerateKey() (string, error) {
	raw := make([]byte, signingKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate signing key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
