package bigmath

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModCenter(t *testing.T) {
	m := big.NewInt(7)
	for x := int64(-20); x <= 20; x++ {
		r := ModCenter(big.NewInt(x), m)
		require.True(t, r.Cmp(big.NewInt(-3)) >= 0 && r.Cmp(big.NewInt(4)) < 0, "x=%d r=%s", x, r)
		diff := new(big.Int).Sub(big.NewInt(x), r)
		require.Zero(t, new(big.Int).Mod(diff, m).Sign())
	}
}

func TestModInverse(t *testing.T) {
	inv, err := ModInverse(big.NewInt(3), big.NewInt(11))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(4), inv)

	_, err = ModInverse(big.NewInt(2), big.NewInt(4))
	require.Error(t, err)
}

func TestIsProbablePrime(t *testing.T) {
	require.True(t, IsProbablePrime(big.NewInt(97), 10))
	require.False(t, IsProbablePrime(big.NewInt(91), 10))
	require.True(t, IsProbablePrime(big.NewInt(2), 10))
	require.False(t, IsProbablePrime(big.NewInt(1), 10))
}

func TestDecomposeCompose(t *testing.T) {
	x := big.NewInt(12345)
	digits := Decompose(x, 5, 12)
	require.Equal(t, x, Compose(digits, 5))
}

func TestRoundDiv(t *testing.T) {
	require.Equal(t, big.NewInt(4), RoundDiv(big.NewInt(7), big.NewInt(2)))
	require.Equal(t, big.NewInt(-4), RoundDiv(big.NewInt(-7), big.NewInt(2)))
}
