package device

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RNG is the byte source behind port 14. It wraps math/rand/v2's PCG
// generator: rand.New(rand.NewPCG(seed, seed^salt)).
type RNG struct {
	r *rand.Rand
}

// NewRNG returns a deterministically-seeded RNG, for reproducible tests.
func NewRNG(seed uint64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(seed, seed^0xDEADBEEF))}
}

// NewDefaultRNG seeds from crypto/rand once at construction, so an
// unseeded core still produces non-repeating bytes outside of tests.
func NewDefaultRNG() *RNG {
	var buf [8]byte
	_, _ = crand.Read(buf[:]) // crypto/rand.Read never errors on this platform
	seed := binary.LittleEndian.Uint64(buf[:])
	return NewRNG(seed)
}

// Byte returns a pseudorandom byte (port 14, rng).
func (g *RNG) Byte() uint8 {
	return uint8(g.r.IntN(256))
}
