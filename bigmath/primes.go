package bigmath

import (
	"crypto/rand"
	"math/big"
)

// IsProbablePrime runs the Miller-Rabin witness loop directly (rather than
// delegating to (*big.Int).ProbablyPrime, which is free to use a different
// test mix) so the number of rounds matches the spec's explicit k exactly.
func IsProbablePrime(n *big.Int, rounds int) bool {
	if n.Sign() <= 0 {
		return false
	}
	switch {
	case n.Cmp(two) == 0 || n.Cmp(big.NewInt(3)) == 0:
		return true
	case n.Cmp(two) < 0:
		return false
	case n.Bit(0) == 0:
		return false
	}

	nMinus1 := new(big.Int).Sub(n, one)
	d := new(big.Int).Set(nMinus1)
	r := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		r++
	}

	nMinus2 := new(big.Int).Sub(n, two)

	for i := 0; i < rounds; i++ {
		a, err := randomRange(two, nMinus2)
		if err != nil {
			return false
		}
		x := new(big.Int).Exp(a, d, n)
		if x.Cmp(one) == 0 || x.Cmp(nMinus1) == 0 {
			continue
		}
		composite := true
		for j := 0; j < r-1; j++ {
			x.Exp(x, two, n)
			if x.Cmp(nMinus1) == 0 {
				composite = false
				break
			}
		}
		if composite {
			return false
		}
	}
	return true
}

// randomRange returns a uniform random integer in [lo, hi] (inclusive).
func randomRange(lo, hi *big.Int) (*big.Int, error) {
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, one)
	v, err := rand.Int(rand.Reader, span)
	if err != nil {
		return nil, err
	}
	return v.Add(v, lo), nil
}
