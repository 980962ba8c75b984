package modswitch

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atraykov02/bgvision/ring"
)

func mustRing(t *testing.T, n int) *ring.Ring {
	r, err := ring.NewRing(n)
	require.NoError(t, err)
	return r
}

func TestSwitchPreservesPlaintextUnderCoprimeDelta(t *testing.T) {
	r := mustRing(t, 8)
	tMod := big.NewInt(17)
	smallMod := big.NewInt(1009) // prime, coprime with 17
	delta := big.NewInt(19)      // coprime with 17
	bigMod := new(big.Int).Mul(smallMod, delta)

	// Encode a plaintext m scaled by delta, i.e. x = delta*m (noise-free).
	m := []*big.Int{big.NewInt(3), big.NewInt(9), big.NewInt(0), big.NewInt(16), big.NewInt(1), big.NewInt(2), big.NewInt(5), big.NewInt(7)}
	coeffs := make([]*big.Int, 8)
	for i, v := range m {
		coeffs[i] = new(big.Int).Mul(v, delta)
	}
	x, err := ring.NewPoly(coeffs, bigMod, r)
	require.NoError(t, err)

	out, err := Switch(x, smallMod, tMod)
	require.NoError(t, err)
	require.Equal(t, smallMod, out.Q)

	for i, c := range out.Coeffs {
		got := new(big.Int).Mod(c, tMod)
		want := new(big.Int).Mod(m[i], tMod)
		require.Equal(t, want, got, "coefficient %d", i)
	}
}

func TestSwitchFallsBackWhenDeltaNotCoprimeWithT(t *testing.T) {
	r := mustRing(t, 4)
	tMod := big.NewInt(7)
	smallMod := big.NewInt(101)
	delta := big.NewInt(14) // shares factor 7 with t
	bigMod := new(big.Int).Mul(smallMod, delta)

	coeffs := []*big.Int{big.NewInt(42), big.NewInt(-14), big.NewInt(0), big.NewInt(28)}
	x, err := ring.NewPoly(coeffs, bigMod, r)
	require.NoError(t, err)

	out, err := Switch(x, smallMod, tMod)
	require.NoError(t, err)
	require.Equal(t, smallMod, out.Q)

	expected, err := SwitchSimple(x, smallMod)
	require.NoError(t, err)
	require.True(t, out.Equal(expected))
}

func TestSwitchRejectsNonDivisibleModulus(t *testing.T) {
	r := mustRing(t, 4)
	x, err := ring.NewPoly([]*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4)}, big.NewInt(100), r)
	require.NoError(t, err)
	_, err = Switch(x, big.NewInt(7), big.NewInt(5))
	require.Error(t, err)
}

func TestSwitchSimpleRounds(t *testing.T) {
	r := mustRing(t, 4)
	bigMod := big.NewInt(1000)
	smallMod := big.NewInt(10)
	x, err := ring.NewPoly([]*big.Int{big.NewInt(495), big.NewInt(-495), big.NewInt(0), big.NewInt(5)}, bigMod, r)
	require.NoError(t, err)
	out, err := SwitchSimple(x, smallMod)
	require.NoError(t, err)
	require.Equal(t, smallMod, out.Q)
}
