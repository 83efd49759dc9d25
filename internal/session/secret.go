package session

import (
	"crypto/rand"
	"encoding/hex"
)

// SecretLength is the number of random bytes in a generated CSRF/session
// secret (32 bytes = 256 bits).
const SecretLength = 32

// GenerateSecret returns a new random secret for CSRF protection.
func GenerateSecret() ([]byte, error) {
	secret := make([]byte, SecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}

// DecodeSecret interprets a configured secret string. Hex-encoded values
// are decoded; anything else is used as raw bytes.
func DecodeSecret(raw string) []byte {
	if decoded, err := hex.DecodeString(raw); err == nil && len(decoded) > 0 {
		return decoded
	}
	return []byte(raw)
}
