// Package plinko implements the provably-fair core: the commit-reveal
// digests, the deterministic generator they seed, and the board simulation
// that turns one generator stream into an auditable outcome. Everything in
// this package is a pure function of its inputs, so any party holding the
// revealed server secret can recompute a round bit-for-bit.
package plinko

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// Rows is the fixed board height. The whole pipeline is defined for exactly
// this shape; changing it would break every published commitment.
const Rows = 12

var (
	ErrInvalidInput        = errors.New("plinko: empty input")
	ErrInvalidSeedMaterial = errors.New("plinko: seed material too short")
	ErrOutOfRangeParameter = errors.New("plinko: parameter out of range")
)

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// DeriveCommitment returns the digest published before the player's value is
// known. The ":" separator is load-bearing: independent implementations must
// hash the exact byte sequence secret:nonce or digests will not match.
func DeriveCommitment(secret, nonce string) (string, error) {
	if secret == "" || nonce == "" {
		return "", fmt.Errorf("%w: secret and nonce are required", ErrInvalidInput)
	}
	return digest(secret + ":" + nonce), nil
}

// DeriveCombinedSeed returns the digest that seeds the generator. It must
// only be computed after the player value is known; the commitment above
// never depends on it.
func DeriveCombinedSeed(secret, playerValue, nonce string) (string, error) {
	if secret == "" || playerValue == "" || nonce == "" {
		return "", fmt.Errorf("%w: secret, player value and nonce are required", ErrInvalidInput)
	}
	return digest(secret + ":" + playerValue + ":" + nonce), nil
}
