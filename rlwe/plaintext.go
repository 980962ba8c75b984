package rlwe

import (
	"fmt"
	"math/big"

	"github.com/atraykov02/bgvision/params"
	"github.com/atraykov02/bgvision/ring"
)

// Plaintext is a length-n vector of integers in [0, t), the raw message
// space coefficients before embedding into R_Q for encryption.
type Plaintext struct {
	Values []*big.Int
}

// NewPlaintext validates that values has length n and every entry lies in
// [0, t).
func NewPlaintext(p params.Parameters, values []*big.Int) (*Plaintext, error) {
	if len(values) != p.N() {
		return nil, fmt.Errorf("rlwe: expected %d coefficients, got %d", p.N(), len(values))
	}
	t := p.TBig()
	for i, v := range values {
		if v.Sign() < 0 || v.Cmp(t) >= 0 {
			return nil, fmt.Errorf("rlwe: value[%d]=%s out of range [0, %d)", i, v, p.T())
		}
	}
	return &Plaintext{Values: values}, nil
}

// asRingElement embeds the plaintext values as a ring element at modulus q,
// with no scaling.
func (pt *Plaintext) asRingElement(q *big.Int, r *ring.Ring) (*ring.Poly, error) {
	return ring.NewPoly(pt.Values, q, r)
}
