// Package oracle computes the expected plaintext result of a chain of
// homomorphic operations directly over Z_t[X]/(X^n+1), independent of any
// ciphertext noise, for use as a correctness reference (spec §4.9).
package oracle

import (
	"fmt"
	"math/big"

	"github.com/atraykov02/bgvision/ring"
)

// HistoryRecord is the minimal shape of a past operation that Evaluate
// needs to replay: which two names were combined, with which operator,
// into which result name, and whether that operation actually succeeded.
// The engine package's own history entries carry additional bookkeeping
// fields and convert down to this shape when calling Evaluate.
type HistoryRecord struct {
	Result  string
	LeftOp  string
	RightOp string
	OpType  string // "+" or "*"
	Success bool
}

// Evaluate recursively computes the expected plaintext vector for name:
// if name names an original encrypted input, its value is returned
// directly; otherwise the history is searched for the (successful)
// operation that produced name, and the expected values of its operands
// are combined — coefficient-wise sum mod t for "+", full ring
// multiplication reduced mod (X^n+1) then mod t for "*".
func Evaluate(name string, hist []HistoryRecord, originals map[string][]*big.Int, t uint64, n int) ([]*big.Int, error) {
	return evaluate(name, hist, originals, t, n, make(map[string][]*big.Int))
}

func evaluate(name string, hist []HistoryRecord, originals map[string][]*big.Int, t uint64, n int, memo map[string][]*big.Int) ([]*big.Int, error) {
	if v, ok := originals[name]; ok {
		return v, nil
	}
	if v, ok := memo[name]; ok {
		return v, nil
	}

	for _, h := range hist {
		if h.Result != name || !h.Success {
			continue
		}
		left, err := evaluate(h.LeftOp, hist, originals, t, n, memo)
		if err != nil {
			return nil, err
		}
		right, err := evaluate(h.RightOp, hist, originals, t, n, memo)
		if err != nil {
			return nil, err
		}

		var result []*big.Int
		switch h.OpType {
		case "+":
			result = addModT(left, right, t)
		case "*":
			result, err = mulModT(left, right, t, n)
			if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("oracle: unknown operation %q for %q", h.OpType, name)
		}
		memo[name] = result
		return result, nil
	}

	return nil, fmt.Errorf("oracle: %q is neither an original value nor the result of a recorded operation", name)
}

func addModT(left, right []*big.Int, t uint64) []*big.Int {
	tBig := new(big.Int).SetUint64(t)
	out := make([]*big.Int, len(left))
	for i := range out {
		sum := new(big.Int).Add(left[i], right[i])
		out[i] = new(big.Int).Mod(sum, tBig)
	}
	return out
}

// mulModT performs the ring multiplication of left by right, reduced
// modulo X^n+1 and then modulo t. This reuses the ring package's own
// negacyclic reduction pipeline rather than reimplementing polynomial
// convolution, so the oracle's notion of "ring multiplication" is
// guaranteed to agree with the one the engine's ciphertexts are built on.
func mulModT(left, right []*big.Int, t uint64, n int) ([]*big.Int, error) {
	r, err := ring.NewRing(n)
	if err != nil {
		return nil, err
	}
	tBig := new(big.Int).SetUint64(t)

	lp, err := ring.NewPoly(left, tBig, r)
	if err != nil {
		return nil, err
	}
	rp, err := ring.NewPoly(right, tBig, r)
	if err != nil {
		return nil, err
	}
	prod, err := lp.Mul(rp)
	if err != nil {
		return nil, err
	}

	out := make([]*big.Int, n)
	for i, c := range prod.Coeffs {
		out[i] = new(big.Int).Mod(c, tBig)
	}
	return out, nil
}
