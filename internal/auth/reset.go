package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const resetTokenBytes = 20

// GenerateResetToken returns a hex-encoded random token for password resets.
func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
