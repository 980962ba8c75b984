package rlwe

import (
	"math/big"

	"github.com/atraykov02/bgvision/ring"
)

// Ciphertext is a two- or three-term BGV ciphertext. C2 is nil for a
// degree-2 (post-relinearization, or additive) ciphertext and non-nil for
// the degree-3 result of a multiplication awaiting relinearization.
type Ciphertext struct {
	C0, C1, C2 *ring.Poly
}

// Degree returns 2 for a linear ciphertext and 3 for one still carrying a
// c2 term.
func (ct *Ciphertext) Degree() int {
	if ct.C2 != nil {
		return 3
	}
	return 2
}

// Modulus returns the coefficient modulus the ciphertext currently sits at.
func (ct *Ciphertext) Modulus() *big.Int {
	return ct.C0.Q
}
