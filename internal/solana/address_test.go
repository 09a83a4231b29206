package solana

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	// Well-known mainnet addresses.
	valid := []string{
		"So11111111111111111111111111111111111111112",
		"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		"11111111111111111111111111111111",
	}
	for _, addr := range valid {
		assert.NoError(t, ValidateAddress(addr), addr)
	}

	invalid := []string{
		"",
		"W1",
		"not-base58-0OIl",
		"abc",
	}
	for _, addr := range invalid {
		assert.Error(t, ValidateAddress(addr), addr)
	}
}

func TestIsOnCurve_KeypairAddress(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	addr := base58.Encode(pub)
	assert.True(t, IsOnCurve(addr))
}

func TestIsOnCurve_Invalid(t *testing.T) {
	assert.False(t, IsOnCurve(""))
	assert.False(t, IsOnCurve("W1"))
	assert.False(t, IsOnCurve("not-base58-0OIl"))
}
