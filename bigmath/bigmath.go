// Package bigmath provides the arbitrary-precision modular arithmetic
// primitives the rest of this module builds on: centered reduction,
// extended-Euclidean inverses, Miller-Rabin primality, rounded division and
// base-b digit decomposition.
package bigmath

import (
	"fmt"
	"math/big"
)

var one = big.NewInt(1)
var two = big.NewInt(2)

// ModCenter reduces x modulo m into the centered representative range
// [-m/2, m/2). m must be positive.
func ModCenter(x, m *big.Int) *big.Int {
	half := new(big.Int).Rsh(m, 1)
	r := new(big.Int).Add(x, half)
	r.Mod(r, m)
	r.Sub(r, half)
	return r
}

// ExtendedGCD returns gcd(a, b) together with Bézout coefficients x, y such
// that gcd = a*x + b*y.
func ExtendedGCD(a, b *big.Int) (gcd, x, y *big.Int) {
	gcd, x, y = new(big.Int), new(big.Int), new(big.Int)
	gcd.GCD(x, y, a, b)
	return
}

// ModInverse returns the inverse of a modulo m, or an error if gcd(a, m) != 1.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("bigmath: modulus must be positive, got %s", m)
	}
	gcd, x, _ := ExtendedGCD(a, m)
	gcd.Abs(gcd)
	if gcd.Cmp(one) != 0 {
		return nil, fmt.Errorf("bigmath: modular inverse does not exist for %s mod %s (gcd=%s)", a, m, gcd)
	}
	inv := new(big.Int).Mod(x, m)
	return inv, nil
}

// GCD returns the (non-negative) greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	g, _, _ := ExtendedGCD(a, b)
	g.Abs(g)
	return g
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}

// RoundDiv divides a by b (b > 0) and rounds to the nearest integer, ties
// rounding away from zero (so 7/2 gives 4 and -7/2 gives -4).
func RoundDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(a, b, r)
	twiceR := new(big.Int).Abs(r)
	twiceR.Lsh(twiceR, 1)
	if twiceR.Cmp(b) >= 0 {
		if a.Sign() >= 0 {
			q.Add(q, one)
		} else {
			q.Sub(q, one)
		}
	}
	return q
}

// FloorDivMul computes floor(a*num/den) for den > 0, used by modulus
// switching's coefficient rescaling step.
func FloorDivMul(a, num, den *big.Int) *big.Int {
	t := new(big.Int).Mul(a, num)
	return new(big.Int).Div(t, den)
}
