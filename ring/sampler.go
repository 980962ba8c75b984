package ring

import "math/big"

// Sampler draws a fresh ring element at the given coefficient modulus.
type Sampler interface {
	Read(q *big.Int) (*Poly, error)
}

// baseSampler holds the state every sampler needs: the PRNG to draw from
// and the Ring (degree) to sample into.
type baseSampler struct {
	prng PRNG
	ring *Ring
}
