package ring

import (
	"math"
	"math/big"
)

const defaultSigma = 3.8

// GaussianSampler draws coefficients as round(N(0, sigma^2)), the
// discrete-Gaussian error distribution used for RLWE noise.
type GaussianSampler struct {
	*baseSampler
	sigma float64
}

// NewGaussianSampler creates a GaussianSampler with the default standard
// deviation (sigma ≈ 3.8).
func NewGaussianSampler(prng PRNG, r *Ring) *GaussianSampler {
	return &GaussianSampler{&baseSampler{prng: prng, ring: r}, defaultSigma}
}

// Read samples a fresh discrete-Gaussian polynomial at modulus q.
func (gs *GaussianSampler) Read(q *big.Int) (*Poly, error) {
	coeffs := make([]*big.Int, gs.ring.N)
	for i := 0; i < gs.ring.N; i++ {
		z, err := gs.sampleOne()
		if err != nil {
			return nil, err
		}
		coeffs[i] = big.NewInt(z)
	}
	return NewPoly(coeffs, q, gs.ring)
}

// sampleOne draws a single round(N(0, sigma^2)) value via the Box-Muller
// transform, fed by the injected PRNG so the whole draw is reproducible
// under a seeded PRNG.
func (gs *GaussianSampler) sampleOne() (int64, error) {
	u1, err := uniformFloat01(gs.prng)
	if err != nil {
		return 0, err
	}
	// Box-Muller takes log(u1); avoid the zero that would blow it up.
	if u1 == 0 {
		u1 = 1e-300
	}
	u2, err := uniformFloat01(gs.prng)
	if err != nil {
		return 0, err
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return int64(math.Round(gs.sigma * z)), nil
}
