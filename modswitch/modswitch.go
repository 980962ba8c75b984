// Package modswitch implements the modulus-switching step of spec §4.5:
// moving a ring element from a large coefficient modulus Q down to a
// smaller one q = Q/Δ while preserving the encrypted plaintext modulo t.
package modswitch

import (
	"fmt"
	"math/big"

	"github.com/atraykov02/bgvision/bigmath"
	"github.com/atraykov02/bgvision/ring"
)

// Switch scales x from its current modulus bigMod down to smallMod,
// preserving the plaintext modulo t. It tries the coprime ("advanced")
// path first — which corrects each coefficient so the rounding error
// stays a multiple of t — and falls back to SwitchSimple whenever Δ and t
// are not coprime, exactly as core/modulus_switch.py's scale2 dispatches
// between scale2_advanced and scale2_func.
func Switch(x *ring.Poly, smallMod *big.Int, t *big.Int) (*ring.Poly, error) {
	bigMod := x.Q
	if bigMod.Sign() <= 0 || smallMod.Sign() <= 0 {
		return nil, fmt.Errorf("modswitch: moduli must be positive")
	}
	delta := new(big.Int)
	rem := new(big.Int)
	delta.QuoRem(bigMod, smallMod, rem)
	if rem.Sign() != 0 {
		return nil, fmt.Errorf("modswitch: big_mod %s not divisible by small_mod %s", bigMod, smallMod)
	}

	if !bigmath.Coprime(delta, t) {
		return SwitchSimple(x, smallMod)
	}

	deltaInv, err := bigmath.ModInverse(t, delta)
	if err != nil {
		return SwitchSimple(x, smallMod)
	}

	n := x.Ring.N
	adjusted := make([]*big.Int, n)
	for i, c := range x.Coeffs {
		centered := bigmath.ModCenter(c, bigMod)
		adj := new(big.Int).Neg(centered)
		adj.Mul(adj, deltaInv)
		adj.Mod(adj, delta)
		adj.Mul(adj, t)
		adjusted[i] = new(big.Int).Add(centered, adj)
	}

	scaled := make([]*big.Int, n)
	for i, c := range adjusted {
		scaled[i] = bigmath.FloorDivMul(c, smallMod, bigMod)
	}
	return ring.NewPoly(scaled, smallMod, x.Ring)
}

// SwitchSimple scales x from its current modulus down to smallMod by
// rounding each centered coefficient to the nearest multiple of
// Δ = bigMod/smallMod, then dividing by Δ. It does not correct for the
// plaintext modulus and so introduces up to ±1/2 of rounding noise per
// coefficient; it is the fallback path taken by Switch and is also
// exported for tests and diagnostics that need to compare the two paths
// directly.
func SwitchSimple(x *ring.Poly, smallMod *big.Int) (*ring.Poly, error) {
	bigMod := x.Q
	if bigMod.Sign() <= 0 || smallMod.Sign() <= 0 {
		return nil, fmt.Errorf("modswitch: moduli must be positive")
	}
	delta := new(big.Int)
	rem := new(big.Int)
	delta.QuoRem(bigMod, smallMod, rem)
	if rem.Sign() != 0 {
		return nil, fmt.Errorf("modswitch: big_mod %s not divisible by small_mod %s", bigMod, smallMod)
	}

	n := x.Ring.N
	result := make([]*big.Int, n)
	for i, c := range x.Coeffs {
		centered := bigmath.ModCenter(c, bigMod)
		result[i] = bigmath.RoundDiv(centered, delta)
	}
	return ring.NewPoly(result, smallMod, x.Ring)
}
