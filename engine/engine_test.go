package engine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atraykov02/bgvision/params"
	"github.com/atraykov02/bgvision/ring"
)

func newTestEngine(t *testing.T, lambda int, tMod uint64, n int, b int, seed string) *Engine {
	t.Helper()
	p, err := params.NewParametersFromLiteral(params.ParametersLiteral{Lambda: lambda, T: tMod, N: n, B: b})
	require.NoError(t, err)
	prng, err := ring.NewKeyedPRNG([]byte(seed))
	require.NoError(t, err)
	e, err := New(p, prng)
	require.NoError(t, err)
	return e
}

func vec(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

// E1: n=16, λ=128, t=7, b=5. A+A decrypts to 2*a mod 7.
func TestE1AdditionDoublesEachCoefficient(t *testing.T) {
	e := newTestEngine(t, 128, 7, 16, 5, "e1")
	a := vec(1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 6, 0, 1, 2)
	require.NoError(t, e.Encrypt("A", a))

	name, err := e.Perform("A", "+", "A")
	require.NoError(t, err)
	got, _, err := e.Decrypt(name)
	require.NoError(t, err)

	want := vec(2, 4, 6, 1, 3, 5, 0, 2, 4, 6, 1, 3, 5, 0, 2, 4)
	require.Equal(t, want, got)
}

// E3: n=8, λ=80, t=2, b=3. X+Y = all-ones.
func TestE3AdditionXPlusY(t *testing.T) {
	e := newTestEngine(t, 80, 2, 8, 3, "e3")
	x := vec(1, 0, 1, 0, 1, 0, 1, 0)
	y := vec(0, 1, 0, 1, 0, 1, 0, 1)
	require.NoError(t, e.Encrypt("X", x))
	require.NoError(t, e.Encrypt("Y", y))

	name, err := e.Perform("X", "+", "Y")
	require.NoError(t, err)
	got, _, err := e.Decrypt(name)
	require.NoError(t, err)
	require.Equal(t, vec(1, 1, 1, 1, 1, 1, 1, 1), got)
}

func TestE2MultiplicationByAllOnesMatchesOracle(t *testing.T) {
	e := newTestEngine(t, 128, 7, 16, 5, "e2")
	a := vec(1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 6, 0, 1, 2)
	ones := vec(1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)
	require.NoError(t, e.Encrypt("A", a))
	require.NoError(t, e.Encrypt("B", ones))

	name, err := e.Perform("A", "*", "B")
	require.NoError(t, err)
	got, _, err := e.Decrypt(name)
	require.NoError(t, err)

	expected, err := e.ExpectedValue(name)
	require.NoError(t, err)
	require.Equal(t, expected, got)
}

// E4: repeated multiplication eventually blocks with critical_pre.
func TestE4DepthStressEventuallyBlocks(t *testing.T) {
	e := newTestEngine(t, 128, 7, 16, 5, "e4")
	a := vec(1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 6, 0, 1, 2)
	require.NoError(t, e.Encrypt("A", a))

	current := "A"
	blocked := false
	for i := 0; i < 40; i++ {
		name, err := e.Perform(current, "*", "A")
		if err != nil {
			var ee *EngineError
			require.ErrorAs(t, err, &ee)
			require.Equal(t, KindOperationBlocked, ee.Kind)
			blocked = true
			break
		}
		current = name
	}
	require.True(t, blocked, "expected repeated multiplication to eventually be blocked")
}

func TestUnknownNameReturnsUnknownNameKind(t *testing.T) {
	e := newTestEngine(t, 80, 7, 8, 3, "unknown")
	_, _, err := e.Decrypt("ghost")
	require.Error(t, err)
	var ee *EngineError
	require.ErrorAs(t, err, &ee)
	require.Equal(t, KindUnknownName, ee.Kind)
}

func TestResetClearsState(t *testing.T) {
	e := newTestEngine(t, 80, 7, 8, 3, "reset")
	require.NoError(t, e.Encrypt("A", vec(1, 0, 1, 0, 1, 0, 1, 0)))
	e.Reset()
	_, _, err := e.Decrypt("A")
	require.Error(t, err)
}

// E5: once a multiplication pushes a ciphertext's noise above the
// switching threshold (but below critical), the next addition involving
// it auto-switches the high-noise operand down to q — and, via
// reconcileModuli, brings the other operand down to match too — and the
// result still decrypts to the correct plaintext.
func TestE5AutoSwitchBeforeAdditionStillDecryptsCorrectly(t *testing.T) {
	e := newTestEngine(t, 128, 7, 16, 5, "e5")
	a := vec(1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 6, 0, 1, 2)
	require.NoError(t, e.Encrypt("A", a))

	high := "A"
	for i := 0; i < 30; i++ {
		info, err := e.noiseInfoFor(high)
		require.NoError(t, err)
		switching, _, _ := thresholds(info.maxLen)
		if info.noiseLen > switching {
			break
		}
		name, err := e.Perform(high, "*", "A")
		require.NoError(t, err)
		high = name
	}

	info, err := e.noiseInfoFor(high)
	require.NoError(t, err)
	switching, _, critical := thresholds(info.maxLen)
	require.Greater(t, info.noiseLen, switching, "expected repeated multiplication to cross the switching threshold")
	require.LessOrEqual(t, info.noiseLen, critical, "noise must still be admissible for the add below to proceed")
	require.Equal(t, 0, e.encrypted[high].C0.Q.Cmp(e.params.BigQ()), "operand should still sit at Q before the add switches it")

	require.NoError(t, e.Encrypt("C", vec(1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1)))

	resultName, err := e.Perform(high, "+", "C")
	require.NoError(t, err)

	require.Equal(t, 0, e.encrypted[high].C0.Q.Cmp(e.params.Q()), "high-noise operand should have been auto-switched to q")
	require.Equal(t, 0, e.encrypted["C"].C0.Q.Cmp(e.params.Q()), "the other operand should have been reconciled down to q too")

	expected, err := e.ExpectedValue(resultName)
	require.NoError(t, err)
	got, _, err := e.Decrypt(resultName)
	require.NoError(t, err)
	require.Equal(t, expected, got)
}

// reconcileModuli brings mismatched operands to a common modulus before
// an operation proceeds. This forces the mismatch directly (switching one
// operand via trySwitch while it still carries only sampling noise, well
// clear of the switching-threshold gate AutoSwitch itself applies) so the
// branch that switches the still-at-Q operand down to meet the already-
// switched one is actually exercised.
func TestReconcileModuliSwitchesMismatchedOperandDownToQ(t *testing.T) {
	e := newTestEngine(t, 80, 7, 8, 3, "reconcile")
	x := vec(1, 0, 1, 0, 1, 0, 1, 0)
	y := vec(0, 1, 0, 1, 0, 1, 0, 1)
	require.NoError(t, e.Encrypt("X", x))
	require.NoError(t, e.Encrypt("Y", y))

	switchedY, accepted, err := e.trySwitch(e.encrypted["Y"])
	require.NoError(t, err)
	require.True(t, accepted, "a freshly-encrypted, low-noise ciphertext should always clear the switching-acceptance check")
	e.encrypted["Y"] = switchedY
	require.Equal(t, 0, switchedY.C0.Q.Cmp(e.params.Q()))
	require.Equal(t, 0, e.encrypted["X"].C0.Q.Cmp(e.params.BigQ()))

	name, err := e.Perform("X", "+", "Y")
	require.NoError(t, err)

	require.Equal(t, 0, e.encrypted["X"].C0.Q.Cmp(e.params.Q()), "reconcileModuli should have switched X down to meet Y")
	require.Equal(t, 0, e.encrypted[name].C0.Q.Cmp(e.params.Q()))

	got, _, err := e.Decrypt(name)
	require.NoError(t, err)
	require.Equal(t, vec(1, 1, 1, 1, 1, 1, 1, 1), got)
}

func TestAutoSwitchIsNoOpWhenAlreadyAtQ(t *testing.T) {
	e := newTestEngine(t, 80, 7, 8, 3, "noop-at-q")
	require.NoError(t, e.Encrypt("X", vec(1, 0, 1, 0, 1, 0, 1, 0)))

	switched, accepted, err := e.trySwitch(e.encrypted["X"])
	require.NoError(t, err)
	require.True(t, accepted)
	e.encrypted["X"] = switched

	didSwitch, err := e.AutoSwitch("X")
	require.NoError(t, err)
	require.False(t, didSwitch)
	require.Equal(t, 0, e.encrypted["X"].C0.Q.Cmp(e.params.Q()))
}

func TestMeasureNoiseReportsWithinBounds(t *testing.T) {
	e := newTestEngine(t, 80, 7, 8, 3, "measure")
	require.NoError(t, e.Encrypt("A", vec(1, 0, 1, 0, 1, 0, 1, 0)))
	report, err := e.MeasureNoise("A")
	require.NoError(t, err)
	require.True(t, report.Noise.Cmp(report.MaxNoise) < 0)
	require.GreaterOrEqual(t, report.Percentage, 0.0)
}
