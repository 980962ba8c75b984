package bigmath

import "math/big"

// Decompose writes the base-b digit expansion of x (assumed non-negative)
// least-significant digit first, always padding (or truncating) to exactly
// `digits` entries so callers get a fixed-length decomposition regardless of
// how many digits x actually needs.
func Decompose(x *big.Int, base, digits int) []*big.Int {
	b := big.NewInt(int64(base))
	cur := new(big.Int).Set(x)
	out := make([]*big.Int, digits)
	for i := 0; i < digits; i++ {
		q, r := new(big.Int), new(big.Int)
		q.DivMod(cur, b, r)
		out[i] = r
		cur = q
	}
	return out
}

// Compose is the left inverse of Decompose: sum_i base^i * digits[i].
func Compose(digits []*big.Int, base int) *big.Int {
	result := new(big.Int)
	power := big.NewInt(1)
	b := big.NewInt(int64(base))
	for _, d := range digits {
		term := new(big.Int).Mul(d, power)
		result.Add(result, term)
		power.Mul(power, b)
	}
	return result
}
