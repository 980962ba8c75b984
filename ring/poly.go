package ring

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/atraykov02/bgvision/bigmath"
)

// ErrRingMismatch is returned by binary operations whose operands do not
// share the same coefficient modulus and polynomial modulus.
var ErrRingMismatch = errors.New("ring: operands are not in the same quotient ring")

// Poly is a ring element: a length-N vector of centered big.Int
// coefficients modulo Q, together with the Ring descriptor for X^N+1. Q and
// the Ring travel with the value, per the "no global current ring" design
// (modulus and Φ are never implicit).
type Poly struct {
	Coeffs []*big.Int
	Q      *big.Int
	Ring   *Ring
}

// NewPoly builds a Poly from raw (possibly out-of-range, possibly
// overlength) coefficients, running the full reduction pipeline: negacyclic
// fold against X^N+1 into a zero-padded length-N vector, then centered
// reduction mod Q.
func NewPoly(coeffs []*big.Int, q *big.Int, r *Ring) (*Poly, error) {
	if q.Sign() <= 0 {
		return nil, fmt.Errorf("ring: modulus must be positive, got %s", q)
	}
	folded := negacyclicFold(coeffs, r.N)
	for i := range folded {
		folded[i] = bigmath.ModCenter(folded[i], q)
	}
	return &Poly{Coeffs: folded, Q: new(big.Int).Set(q), Ring: r}, nil
}

// Zero returns the additive identity in the ring (Q, r).
func Zero(q *big.Int, r *Ring) *Poly {
	coeffs := make([]*big.Int, r.N)
	for i := range coeffs {
		coeffs[i] = new(big.Int)
	}
	return &Poly{Coeffs: coeffs, Q: new(big.Int).Set(q), Ring: r}
}

// negacyclicFold reduces an overlength coefficient vector modulo X^n+1: for
// i = q*n+rem, X^i ≡ (-1)^q X^rem, so the contribution of coeffs[i] folds
// into result[rem] with sign (-1)^q. This is mathematically identical to
// repeated polynomial long division by X^n+1 but avoids re-implementing
// general polynomial division for a fixed, always-monic-binomial modulus.
func negacyclicFold(coeffs []*big.Int, n int) []*big.Int {
	result := make([]*big.Int, n)
	for i := range result {
		result[i] = new(big.Int)
	}
	for i, c := range coeffs {
		if c == nil {
			continue
		}
		idx := i % n
		block := i / n
		if block%2 == 1 {
			result[idx].Sub(result[idx], c)
		} else {
			result[idx].Add(result[idx], c)
		}
	}
	return result
}

func (p *Poly) checkCompat(o *Poly) error {
	if !p.Ring.Equal(o.Ring) || p.Q.Cmp(o.Q) != 0 {
		return ErrRingMismatch
	}
	return nil
}

// Add returns p + o.
func (p *Poly) Add(o *Poly) (*Poly, error) {
	if err := p.checkCompat(o); err != nil {
		return nil, err
	}
	sum := make([]*big.Int, p.Ring.N)
	for i := range sum {
		sum[i] = new(big.Int).Add(p.Coeffs[i], o.Coeffs[i])
	}
	return NewPoly(sum, p.Q, p.Ring)
}

// Sub returns p - o.
func (p *Poly) Sub(o *Poly) (*Poly, error) {
	if err := p.checkCompat(o); err != nil {
		return nil, err
	}
	diff := make([]*big.Int, p.Ring.N)
	for i := range diff {
		diff[i] = new(big.Int).Sub(p.Coeffs[i], o.Coeffs[i])
	}
	return NewPoly(diff, p.Q, p.Ring)
}

// Neg returns -p.
func (p *Poly) Neg() *Poly {
	neg := make([]*big.Int, p.Ring.N)
	for i, c := range p.Coeffs {
		neg[i] = new(big.Int).Neg(c)
	}
	out, _ := NewPoly(neg, p.Q, p.Ring)
	return out
}

// MulScalar returns k*p for an integer scalar k.
func (p *Poly) MulScalar(k *big.Int) *Poly {
	out := make([]*big.Int, p.Ring.N)
	for i, c := range p.Coeffs {
		out[i] = new(big.Int).Mul(c, k)
	}
	res, _ := NewPoly(out, p.Q, p.Ring)
	return res
}

// Mul returns the ring product p*o: schoolbook convolution followed by the
// negacyclic reduction pipeline.
func (p *Poly) Mul(o *Poly) (*Poly, error) {
	if err := p.checkCompat(o); err != nil {
		return nil, err
	}
	n := p.Ring.N
	conv := make([]*big.Int, 2*n-1)
	for i := range conv {
		conv[i] = new(big.Int)
	}
	for i, a := range p.Coeffs {
		if a.Sign() == 0 {
			continue
		}
		for j, b := range o.Coeffs {
			if b.Sign() == 0 {
				continue
			}
			term := new(big.Int).Mul(a, b)
			conv[i+j].Add(conv[i+j], term)
		}
	}
	return NewPoly(conv, p.Q, p.Ring)
}

// Equal reports whether p and o have identical modulus, ring and
// coefficients.
func (p *Poly) Equal(o *Poly) bool {
	if !p.Ring.Equal(o.Ring) || p.Q.Cmp(o.Q) != 0 {
		return false
	}
	for i := range p.Coeffs {
		if p.Coeffs[i].Cmp(o.Coeffs[i]) != 0 {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of p.
func (p *Poly) Copy() *Poly {
	coeffs := make([]*big.Int, len(p.Coeffs))
	for i, c := range p.Coeffs {
		coeffs[i] = new(big.Int).Set(c)
	}
	return &Poly{Coeffs: coeffs, Q: new(big.Int).Set(p.Q), Ring: p.Ring}
}

// WithModulus returns a copy of p re-reduced under a new coefficient
// modulus, leaving the polynomial modulus (Φ, degree) unchanged. This is
// how a secret key stored at Q is retargeted to a view at q.
func (p *Poly) WithModulus(q *big.Int) (*Poly, error) {
	return NewPoly(p.Coeffs, q, p.Ring)
}

// MaxAbs returns the largest absolute value among the (already centered)
// coefficients — the noise magnitude used throughout §4.8.
func (p *Poly) MaxAbs() *big.Int {
	max := new(big.Int)
	for _, c := range p.Coeffs {
		abs := new(big.Int).Abs(c)
		if abs.Cmp(max) > 0 {
			max = abs
		}
	}
	return max
}
