package relin

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atraykov02/bgvision/params"
	"github.com/atraykov02/bgvision/ring"
	"github.com/atraykov02/bgvision/rlwe"
)

func TestDigitCountMatchesExactPower(t *testing.T) {
	base := 4
	m := new(big.Int).Exp(big.NewInt(int64(base)), big.NewInt(10), nil)
	require.Equal(t, 10, DigitCount(m, base))
}

func TestDigitCountHandlesNonExactPower(t *testing.T) {
	base := 3
	m := big.NewInt(1000) // 3^6=729 < 1000 <= 3^7=2187
	require.Equal(t, 7, DigitCount(m, base))
}

func TestDigitDecomposeComposeRoundTrip(t *testing.T) {
	r, err := ring.NewRing(8)
	require.NoError(t, err)
	q := big.NewInt(1 << 20)
	coeffs := []*big.Int{big.NewInt(12345), big.NewInt(-9876), big.NewInt(0), big.NewInt(1), big.NewInt(500000), big.NewInt(-1), big.NewInt(42), big.NewInt(7)}
	p, err := ring.NewPoly(coeffs, q, r)
	require.NoError(t, err)

	base := 4
	digits := DigitCount(q, base)
	parts, err := DigitDecompose(p, base, digits)
	require.NoError(t, err)
	require.Len(t, parts, digits)

	recombined, err := DigitCompose(parts, base)
	require.NoError(t, err)

	for i := range p.Coeffs {
		nonneg := new(big.Int).Mod(p.Coeffs[i], q)
		require.Equal(t, nonneg, new(big.Int).Mod(recombined.Coeffs[i], q))
	}
}

func TestGenRelinearizationKeyAndApply(t *testing.T) {
	p, err := params.NewParametersFromLiteral(params.ParametersLiteral{Lambda: 80, T: 17, N: 8, B: 4})
	require.NoError(t, err)
	prng, err := ring.NewKeyedPRNG([]byte("relin-apply"))
	require.NoError(t, err)

	kg := rlwe.NewKeyGenerator(p, prng)
	sk, err := kg.GenSecretKey()
	require.NoError(t, err)
	pk, err := kg.GenPublicKey(sk)
	require.NoError(t, err)

	rlk, err := GenRelinearizationKey(kg, sk, p.BigQ(), p.B())
	require.NoError(t, err)
	require.Len(t, rlk.EK0, DigitCount(p.BigQ(), p.B()))

	values := make([]*big.Int, p.N())
	for i := range values {
		values[i] = big.NewInt(int64(i) % int64(p.T()))
	}
	pt, err := rlwe.NewPlaintext(p, values)
	require.NoError(t, err)

	enc := rlwe.NewEncryptor(p, pk, prng)
	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)

	// A ciphertext with no c2 term passes through unchanged.
	out, err := Apply(rlk, ct)
	require.NoError(t, err)
	require.Same(t, ct, out)
}

func TestApplyOnDegree3CiphertextDecryptsCorrectly(t *testing.T) {
	p, err := params.NewParametersFromLiteral(params.ParametersLiteral{Lambda: 80, T: 17, N: 8, B: 4})
	require.NoError(t, err)
	prng, err := ring.NewKeyedPRNG([]byte("relin-apply-degree3"))
	require.NoError(t, err)

	kg := rlwe.NewKeyGenerator(p, prng)
	sk, err := kg.GenSecretKey()
	require.NoError(t, err)
	pk, err := kg.GenPublicKey(sk)
	require.NoError(t, err)

	values := make([]*big.Int, p.N())
	for i := range values {
		values[i] = big.NewInt(int64(i % 2))
	}
	pt, err := rlwe.NewPlaintext(p, values)
	require.NoError(t, err)

	enc := rlwe.NewEncryptor(p, pk, prng)
	ct, err := enc.Encrypt(pt)
	require.NoError(t, err)

	// Synthesize a degree-3 ciphertext by attaching a zero c2 term: this
	// exercises the Apply path without depending on the engine's
	// multiplication routine.
	zero := ringZero(t, ct.C0)
	ct3 := &rlwe.Ciphertext{C0: ct.C0, C1: ct.C1, C2: zero}
	require.Equal(t, 3, ct3.Degree())

	rlk, err := GenRelinearizationKey(kg, sk, p.BigQ(), p.B())
	require.NoError(t, err)

	relinearized, err := Apply(rlk, ct3)
	require.NoError(t, err)
	require.Equal(t, 2, relinearized.Degree())

	dec := rlwe.NewDecryptor(p, sk)
	out, _, err := dec.Decrypt(relinearized)
	require.NoError(t, err)
	require.Equal(t, pt.Values, out)
}

func ringZero(t *testing.T, like *ring.Poly) *ring.Poly {
	t.Helper()
	return ring.Zero(like.Q, like.Ring)
}
