package ring

import "math/big"

// TernarySampler draws coefficients from {-1, 0, 1} with probabilities
// (1/4, 1/2, 1/4).
type TernarySampler struct {
	*baseSampler
}

// NewTernarySampler creates a TernarySampler over the given ring, drawing
// randomness from prng.
func NewTernarySampler(prng PRNG, r *Ring) *TernarySampler {
	return &TernarySampler{&baseSampler{prng: prng, ring: r}}
}

// Read samples a fresh ternary polynomial at modulus q.
func (ts *TernarySampler) Read(q *big.Int) (*Poly, error) {
	coeffs := make([]*big.Int, ts.ring.N)
	for i := range coeffs {
		// Two independent random bits give four equally likely outcomes;
		// mapping {0,3}->0 and {1}->-1, {2}->1 reproduces P(-1)=P(1)=1/4,
		// P(0)=1/2 exactly.
		b, err := randomUint64(ts.prng)
		if err != nil {
			return nil, err
		}
		switch b % 4 {
		case 0, 3:
			coeffs[i] = big.NewInt(0)
		case 1:
			coeffs[i] = big.NewInt(-1)
		case 2:
			coeffs[i] = big.NewInt(1)
		}
	}
	return NewPoly(coeffs, q, ts.ring)
}
