// Package relin implements relinearization (spec §4.6): reducing a
// degree-3 ciphertext produced by multiplication back to degree 2 via
// base-b digit-decomposition key switching.
package relin

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"

	"github.com/atraykov02/bgvision/bigmath"
	"github.com/atraykov02/bgvision/ring"
	"github.com/atraykov02/bgvision/rlwe"
)

// ErrRelinFailure is returned by Apply when the digit decomposition of c2
// cannot be matched against the evaluation key, or the underlying ring
// arithmetic fails. The engine package surfaces this as a RelinFailure
// rather than silently returning the degree-3 ciphertext with c2 dropped.
var ErrRelinFailure = errors.New("relin: relinearization failed")

// Key is an evaluation key set for one base and modulus: L pairs
// (ek0_i, ek1_i) encrypting base^i * sk^2, mirroring
// core/relinearization.py's gen_relinearization_key.
type Key struct {
	Base    int
	Modulus *big.Int
	EK0     []*ring.Poly
	EK1     []*ring.Poly
}

// DigitCount returns L = ceil(log_base(m)), the number of digits needed to
// represent any residue modulo m in the given base. A fast floating-point
// estimate from bigfloat.Log seeds an exact big.Int refinement loop so the
// result is correct at cryptographic bit lengths, where float64 precision
// alone would not be trustworthy.
func DigitCount(m *big.Int, base int) int {
	if m.Sign() <= 0 {
		return 1
	}
	if m.Cmp(big.NewInt(1)) == 0 {
		return 1
	}

	prec := uint(m.BitLen()) + 64
	mf := new(big.Float).SetPrec(prec).SetInt(m)
	lnM := bigfloat.Log(mf)
	lnBase := math.Log(float64(base))
	ratio := new(big.Float).Quo(lnM, big.NewFloat(lnBase))
	est, _ := ratio.Int64()
	l := int(est)
	if l < 1 {
		l = 1
	}

	bigBase := big.NewInt(int64(base))
	pow := new(big.Int).Exp(bigBase, big.NewInt(int64(l)), nil)
	for pow.Cmp(m) < 0 {
		l++
		pow.Mul(pow, bigBase)
	}
	for l > 1 {
		prev := new(big.Int).Div(pow, bigBase)
		if prev.Cmp(m) >= 0 {
			pow = prev
			l--
		} else {
			break
		}
	}
	return l
}

// DigitDecompose splits p into `digits` ring elements such that
// p = sum_i base^i * result[i] (mod p.Q), one coefficient-wise base-b
// expansion per column, matching core/relinearization.py's poly2base.
func DigitDecompose(p *ring.Poly, base, digits int) ([]*ring.Poly, error) {
	n := p.Ring.N
	cols := make([][]*big.Int, digits)
	for i := range cols {
		cols[i] = make([]*big.Int, n)
	}
	for i, c := range p.Coeffs {
		nonneg := new(big.Int).Mod(c, p.Q)
		ds := bigmath.Decompose(nonneg, base, digits)
		for j := 0; j < digits; j++ {
			cols[j][i] = ds[j]
		}
	}
	out := make([]*ring.Poly, digits)
	for j, col := range cols {
		poly, err := ring.NewPoly(col, p.Q, p.Ring)
		if err != nil {
			return nil, err
		}
		out[j] = poly
	}
	return out, nil
}

// DigitCompose is the left inverse of DigitDecompose: sum_i base^i * parts[i].
// The original source has no such function; it is added here because
// round-tripping a decomposition is one of the testable properties of the
// digit machinery.
func DigitCompose(parts []*ring.Poly, base int) (*ring.Poly, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("relin: cannot compose an empty digit list")
	}
	q := parts[0].Q
	r := parts[0].Ring
	result := ring.Zero(q, r)
	power := big.NewInt(1)
	bigBase := big.NewInt(int64(base))
	for _, part := range parts {
		term := part.MulScalar(power)
		var err error
		result, err = result.Add(term)
		if err != nil {
			return nil, err
		}
		power = new(big.Int).Mul(power, bigBase)
	}
	return result, nil
}

// GenRelinearizationKey draws a fresh evaluation key at the given modulus
// for sk, base and digit count L = DigitCount(modulus, base), per
// gen_relinearization_key: each ek_i is a public-key-like RLWE sample of
// base^i * sk^2.
func GenRelinearizationKey(kg *rlwe.KeyGenerator, sk *rlwe.SecretKey, modulus *big.Int, base int) (*Key, error) {
	skAt, err := sk.Value.WithModulus(modulus)
	if err != nil {
		return nil, err
	}
	sk2, err := skAt.Mul(skAt)
	if err != nil {
		return nil, err
	}

	l := DigitCount(modulus, base)
	ek0 := make([]*ring.Poly, l)
	ek1 := make([]*ring.Poly, l)
	power := big.NewInt(1)
	bigBase := big.NewInt(int64(base))
	for i := 0; i < l; i++ {
		pk, err := kg.GenPublicKeyAt(&rlwe.SecretKey{Value: skAt}, modulus)
		if err != nil {
			return nil, err
		}
		term := sk2.MulScalar(power)
		ek0i, err := pk.B.Add(term)
		if err != nil {
			return nil, err
		}
		ek0[i] = ek0i
		ek1[i] = pk.A
		power = new(big.Int).Mul(power, bigBase)
	}
	return &Key{Base: base, Modulus: new(big.Int).Set(modulus), EK0: ek0, EK1: ek1}, nil
}

// Apply relinearizes ct, reducing a degree-3 ciphertext to degree 2 by
// consuming its c2 term against rlk. A ciphertext that already has no c2
// term is returned unchanged. Any mismatch between the digit
// decomposition and the key length, or any underlying ring arithmetic
// failure, is reported as ErrRelinFailure rather than returning the
// degree-3 ciphertext with c2 silently dropped.
func Apply(rlk *Key, ct *rlwe.Ciphertext) (*rlwe.Ciphertext, error) {
	if ct.C2 == nil {
		return ct, nil
	}
	digits := len(rlk.EK0)
	c2Parts, err := DigitDecompose(ct.C2, rlk.Base, digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRelinFailure, err)
	}
	if len(c2Parts) != len(rlk.EK1) {
		return nil, fmt.Errorf("%w: digit count %d does not match key length %d", ErrRelinFailure, len(c2Parts), len(rlk.EK1))
	}

	c0Hat := ct.C0
	c1Hat := ct.C1
	for i, c2i := range c2Parts {
		term0, err := c2i.Mul(rlk.EK0[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRelinFailure, err)
		}
		c0Hat, err = c0Hat.Add(term0)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRelinFailure, err)
		}
		term1, err := c2i.Mul(rlk.EK1[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRelinFailure, err)
		}
		c1Hat, err = c1Hat.Add(term1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRelinFailure, err)
		}
	}
	return &rlwe.Ciphertext{C0: c0Hat, C1: c1Hat}, nil
}
