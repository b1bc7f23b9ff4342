package plinko

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Generator is a 32-bit xorshift stream seeded from a combined-seed digest.
// A generator is owned by exactly one simulation run and advanced
// sequentially; every call to Next mutates the state, so draw order anywhere
// downstream changes every subsequent output.
type Generator struct {
	state uint32
}

// NewGenerator seeds a generator from the first 4 raw bytes of the
// combined-seed digest, interpreted big-endian. Zero is an absorbing state
// for this generator family and is replaced with 1.
func NewGenerator(combinedSeedHex string) (*Generator, error) {
	raw, err := hex.DecodeString(combinedSeedHex)
	if len(raw) < 4 {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSeedMaterial, err)
		}
		return nil, fmt.Errorf("%w: got %d seed bytes, need 4", ErrInvalidSeedMaterial, len(raw))
	}

	seed := binary.BigEndian.Uint32(raw[:4])
	if seed == 0 {
		seed = 1
	}

	return &Generator{state: seed}, nil
}

// Next advances the state and returns a value in [0,1).
func (g *Generator) Next() float64 {
	x := g.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	g.state = x
	return float64(x) / (1 << 32)
}
