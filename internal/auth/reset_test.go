package auth

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateResetToken(t *testing.T) {
	token, err := GenerateResetToken()

	assert.NoError(t, err)
	assert.Len(t, token, 40)

	decoded, err := hex.DecodeString(token)
	assert.NoError(t, err)
	assert.Len(t, decoded, 20)
}

func TestGenerateResetToken_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := GenerateResetToken()
		assert.NoError(t, err)

		_, dup := seen[token]
		assert.False(t, dup, "token generated twice: %s", token)
		seen[token] = struct{}{}
	}
}
