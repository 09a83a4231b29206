package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ValidateAddress checks that s is a base58-encoded 32-byte Solana address.
func ValidateAddress(s string) error {
	decoded, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("decode address: %w", err)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("address must decode to 32 bytes, got %d", len(decoded))
	}
	return nil
}

// IsOnCurve reports whether the address is a valid ed25519 point, i.e. a
// keypair-backed account rather than a program-derived address.
func IsOnCurve(s string) bool {
	decoded, err := base58.Decode(s)
	if err != nil || len(decoded) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(decoded)
	return err == nil
}
