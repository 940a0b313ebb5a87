// Package secrets encrypts Actions secret values for the GitHub API.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// Encrypt seals plaintext for the base64 encoded Curve25519 public key of an
// organization, repository or environment and returns the base64 encoded box
func Encrypt(publicKey, plaintext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return "", fmt.Errorf("failed to decode public key: %w", err)
	}
	if len(raw) != 32 {
		return "", fmt.Errorf("public key must be 32 bytes, got %d", len(raw))
	}

	var recipient [32]byte
	copy(recipient[:], raw)

	sealed, err := box.SealAnonymous(nil, []byte(plaintext), &recipient, rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}
