package testutil

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSolanaKeys(t *testing.T) {
	keys := GenerateSolanaKeys(t, 4)
	require.Len(t, keys, 4)

	seen := make(map[string]struct{})
	for _, key := range keys {
		assert.Len(t, key, ed25519.PublicKeySize)
		seen[string(key)] = struct{}{}
	}
	assert.Len(t, seen, 4)

	priv := GenerateSolanaKeypair(t)
	assert.Len(t, priv, ed25519.PrivateKeySize)

	assert.Len(t, NewRandomKey(t), ed25519.PublicKeySize)
}
