// Package params builds the two-level coefficient modulus Q = q·Δ that
// makes modulus switching noise-preserving for a given plaintext modulus,
// per spec §4.3.
package params

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/atraykov02/bgvision/bigmath"
	"github.com/atraykov02/bgvision/ring"
)

// MaxModulusAttempts bounds the coprimality search for the small modulus q
// before falling back to a deterministic construction.
const MaxModulusAttempts = 100

// MaxDeltaPrimeAttempts bounds the probable-prime search for Δ.
const MaxDeltaPrimeAttempts = 50

// MaxParameterRestarts bounds the number of full (q, Δ, Q) searches
// attempted before giving up with InvalidParameters.
const MaxParameterRestarts = 10

// MillerRabinRounds is the number of Miller-Rabin witness rounds used
// throughout parameter construction.
const MillerRabinRounds = 10

// ParametersLiteral is the unchecked, user-facing input to parameter
// construction: security level, plaintext modulus, ring degree and
// relinearization base.
type ParametersLiteral struct {
	Lambda int    // security bits, [80, 512]
	T      uint64 // plaintext prime, [2, 97]
	N      int    // ring degree, power of two in [4, 128]
	B      int    // relinearization base, [2, 10]
}

// Parameters is the validated, immutable result of NewParametersFromLiteral.
type Parameters struct {
	lambda int
	t      uint64
	n      int
	b      int
	q      *big.Int // small modulus
	delta  *big.Int // Δ = Q/q
	bigQ   *big.Int // large modulus
	ring   *ring.Ring
}

func (p Parameters) Lambda() int       { return p.lambda }
func (p Parameters) T() uint64         { return p.t }
func (p Parameters) N() int            { return p.n }
func (p Parameters) B() int            { return p.b }
func (p Parameters) Q() *big.Int       { return new(big.Int).Set(p.q) }
func (p Parameters) Delta() *big.Int   { return new(big.Int).Set(p.delta) }
func (p Parameters) BigQ() *big.Int    { return new(big.Int).Set(p.bigQ) }
func (p Parameters) Ring() *ring.Ring  { return p.ring }
func (p Parameters) TBig() *big.Int    { return new(big.Int).SetUint64(p.t) }

// NewParametersFromLiteral validates lit and builds (Q, q, Δ) satisfying
// invariants I1-I6 of spec §4.3.
func NewParametersFromLiteral(lit ParametersLiteral) (Parameters, error) {
	if lit.Lambda < 80 || lit.Lambda > 512 {
		return Parameters{}, fmt.Errorf("params: lambda=%d out of range [80, 512]", lit.Lambda)
	}
	if lit.T < 2 || lit.T > 97 {
		return Parameters{}, fmt.Errorf("params: t=%d out of range [2, 97]", lit.T)
	}
	if !bigmath.IsProbablePrime(new(big.Int).SetUint64(lit.T), MillerRabinRounds) {
		return Parameters{}, fmt.Errorf("params: t=%d is not prime", lit.T)
	}
	if lit.N < 4 || lit.N > 128 || lit.N&(lit.N-1) != 0 {
		return Parameters{}, fmt.Errorf("params: n=%d must be a power of two in [4, 128]", lit.N)
	}
	if lit.B < 2 || lit.B > 10 {
		return Parameters{}, fmt.Errorf("params: b=%d out of range [2, 10]", lit.B)
	}

	r, err := ring.NewRing(lit.N)
	if err != nil {
		return Parameters{}, fmt.Errorf("params: %w", err)
	}

	tBig := new(big.Int).SetUint64(lit.T)

	var q, delta, bigQ *big.Int
	var buildErr error
	for attempt := 0; attempt < MaxParameterRestarts; attempt++ {
		q, buildErr = buildSmallModulus(lit.Lambda, tBig)
		if buildErr != nil {
			continue
		}
		delta, buildErr = buildDelta(lit.Lambda, tBig)
		if buildErr != nil {
			continue
		}
		bigQ = new(big.Int).Mul(q, delta)

		if verifyErr := verifyInvariants(bigQ, q, delta, tBig, lit.Lambda); verifyErr != nil {
			buildErr = verifyErr
			continue
		}
		buildErr = nil
		break
	}
	if buildErr != nil {
		return Parameters{}, fmt.Errorf("params: InvalidParameters: %w", buildErr)
	}

	return Parameters{
		lambda: lit.Lambda,
		t:      lit.T,
		n:      lit.N,
		b:      lit.B,
		q:      q,
		delta:  delta,
		bigQ:   bigQ,
		ring:   r,
	}, nil
}

// buildSmallModulus implements spec §4.3 step 1: an odd modulus of bit
// length max(32, λ/2), coprime with t, with a deterministic fallback.
func buildSmallModulus(lambda int, t *big.Int) (*big.Int, error) {
	bits := lambda / 2
	if bits < 32 {
		bits = 32
	}

	q, err := randomOddOfBitLen(bits)
	if err != nil {
		return nil, err
	}
	if q.Cmp(t) <= 0 {
		q = new(big.Int).Add(new(big.Int).Mul(t, big.NewInt(2)), big.NewInt(1))
	}
	for attempt := 0; attempt < MaxModulusAttempts; attempt++ {
		if bigmath.Coprime(q, t) {
			return q, nil
		}
		q = new(big.Int).Add(q, big.NewInt(2))
	}

	// Deterministic fallback: smallest odd modulus above 2t coprime with t.
	fallback := new(big.Int).Add(new(big.Int).Mul(t, big.NewInt(2)), big.NewInt(1))
	for !bigmath.Coprime(fallback, t) {
		fallback.Add(fallback, big.NewInt(2))
	}
	return fallback, nil
}

// buildDelta implements spec §4.3 step 2: Δ ≡ 1 (mod t), of bit length at
// least λ+32, advanced up to MaxDeltaPrimeAttempts times in search of a
// probable prime while preserving the congruence.
func buildDelta(lambda int, t *big.Int) (*big.Int, error) {
	delta0 := new(big.Int).Lsh(big.NewInt(1), uint(lambda+32))
	r := new(big.Int).Mod(delta0, t)
	adjust := new(big.Int).Mod(new(big.Int).Add(new(big.Int).Sub(t, r), big.NewInt(1)), t)
	delta := new(big.Int).Add(delta0, adjust)

	for attempt := 0; attempt < MaxDeltaPrimeAttempts; attempt++ {
		if bigmath.IsProbablePrime(delta, MillerRabinRounds) {
			break
		}
		delta.Add(delta, t)
	}
	return delta, nil
}

// randomOddOfBitLen draws a uniformly random odd integer with exactly the
// given bit length.
func randomOddOfBitLen(bits int) (*big.Int, error) {
	numBytes := (bits + 7) / 8
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	x := new(big.Int).SetBytes(buf)
	x.SetBit(x, bits-1, 1)
	x.SetBit(x, 0, 1)
	return x, nil
}

// verifyInvariants checks I1-I6 of spec §4.3.
func verifyInvariants(bigQ, q, delta, t *big.Int, lambda int) error {
	if new(big.Int).Mod(bigQ, q).Sign() != 0 {
		return fmt.Errorf("I1 violated: Q mod q != 0")
	}
	if !bigmath.Coprime(q, t) {
		return fmt.Errorf("I2 violated: gcd(q, t) != 1")
	}
	if !bigmath.Coprime(delta, t) {
		return fmt.Errorf("I3 violated: gcd(delta, t) != 1")
	}
	if new(big.Int).Mod(delta, t).Cmp(big.NewInt(1)) != 0 {
		return fmt.Errorf("I4 violated: delta !≡ 1 (mod t)")
	}
	minQBits := lambda / 2
	if minQBits < 32 {
		minQBits = 32
	}
	if q.BitLen() < minQBits {
		return fmt.Errorf("I5 violated: bit_length(q)=%d < %d", q.BitLen(), minQBits)
	}
	if delta.BitLen() < lambda+32 {
		return fmt.Errorf("I6 violated: bit_length(delta)=%d < %d", delta.BitLen(), lambda+32)
	}
	return nil
}

// Verify re-checks I1-I6 against the receiver's own fields, independent of
// construction — a standalone diagnostic mirroring
// verify_modulus_compatibility in the source this was distilled from.
func (p Parameters) Verify() []error {
	var errs []error
	if err := verifyInvariants(p.bigQ, p.q, p.delta, p.TBig(), p.lambda); err != nil {
		errs = append(errs, err)
	}
	return errs
}
