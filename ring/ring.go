// Package ring implements the quotient ring R_q = Z_q[X]/(X^n+1) with
// arbitrary-precision, centered-form coefficients, along with the ternary,
// discrete-Gaussian and uniform samplers used to draw RLWE secrets, errors
// and masks.
package ring

import "fmt"

// Ring describes the polynomial modulus Φ = X^n+1 shared by a family of
// Poly values. n is always a power of two. Unlike lattigo's RNS ring
// context, it carries no residue-chain state: coefficient modulus travels
// with each Poly instead (see Poly).
type Ring struct {
	N int
}

// NewRing validates n and returns a Ring descriptor for X^n+1.
func NewRing(n int) (*Ring, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("ring: N=%d must be a power of two", n)
	}
	return &Ring{N: n}, nil
}

// Equal reports whether two rings share the same degree.
func (r *Ring) Equal(o *Ring) bool {
	return r != nil && o != nil && r.N == o.N
}
