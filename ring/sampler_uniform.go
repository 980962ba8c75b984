package ring

import "math/big"

// UniformSampler draws coefficients independently and uniformly from
// [0, q), then centers them — the distribution used for the public RLWE
// mask "a".
type UniformSampler struct {
	*baseSampler
}

// NewUniformSampler creates a UniformSampler over the given ring.
func NewUniformSampler(prng PRNG, r *Ring) *UniformSampler {
	return &UniformSampler{&baseSampler{prng: prng, ring: r}}
}

// Read samples a fresh uniform polynomial at modulus q.
func (us *UniformSampler) Read(q *big.Int) (*Poly, error) {
	coeffs := make([]*big.Int, us.ring.N)
	for i := range coeffs {
		v, err := randomBigInt(us.prng, q)
		if err != nil {
			return nil, err
		}
		coeffs[i] = v
	}
	return NewPoly(coeffs, q, us.ring)
}
