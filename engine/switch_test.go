package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// matchRatio is the pure computation behind trySwitch's 70%-acceptance
// heuristic; it is tested directly here because engineering a real BGV
// ciphertext whose post-switch plaintext disagrees with its pre-switch
// plaintext on 30%+ of coefficients, without first violating the
// pre-switch decryption-correctness bound, requires adversarial noise no
// honest sampler produces (the preferred switching path is, by
// construction, exactly residue-preserving mod t; see modswitch.Switch).
func TestMatchRatioComputesFractionOfAgreement(t *testing.T) {
	pre := vec(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	post := vec(1, 2, 3, 4, 5, 6, 7, 8, 0, 0) // 8 of 10 agree
	require.InDelta(t, 0.8, matchRatio(pre, post), 1e-9)
}

func TestMatchRatioAllAgree(t *testing.T) {
	pre := vec(1, 2, 3, 4)
	post := vec(1, 2, 3, 4)
	require.Equal(t, 1.0, matchRatio(pre, post))
}

// Below switchAcceptanceThreshold, trySwitch rolls back to the original
// ciphertext; a 4-of-10 agreement falls on that side of the threshold.
func TestMatchRatioBelowAcceptanceThresholdTriggersRollback(t *testing.T) {
	pre := vec(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	post := vec(0, 0, 0, 4, 5, 6, 7, 0, 0, 0) // only 4 of 10 agree
	ratio := matchRatio(pre, post)
	require.InDelta(t, 0.4, ratio, 1e-9)
	require.Less(t, ratio, switchAcceptanceThreshold)
}

func TestMatchRatioAtAcceptanceThresholdIsAccepted(t *testing.T) {
	pre := vec(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	post := vec(1, 2, 3, 4, 5, 6, 7, 0, 0, 0) // exactly 7 of 10 agree
	ratio := matchRatio(pre, post)
	require.InDelta(t, 0.7, ratio, 1e-9)
	require.GreaterOrEqual(t, ratio, switchAcceptanceThreshold)
}

// TestTrySwitchEitherAcceptsCorrectlyOrRollsBackUnchanged drives a
// ciphertext's noise up via repeated multiplication (as E4 does) and, at
// every step still sitting at modulus Q, calls trySwitch directly
// (bypassing AutoSwitch's own critical-threshold gate) to exercise both
// branches trySwitch can take: an accepted switch must land at modulus q
// and still decrypt correctly, and a rolled-back switch must return the
// original ciphertext untouched, at its original modulus, still
// decrypting to the same values as before the attempt.
func TestTrySwitchEitherAcceptsCorrectlyOrRollsBackUnchanged(t *testing.T) {
	e := newTestEngine(t, 128, 7, 16, 5, "tryswitch")
	require.NoError(t, e.Encrypt("A", vec(1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 6, 0, 1, 2)))

	current := "A"
	exercised := 0
	for i := 0; i < 10; i++ {
		name, err := e.Perform(current, "*", current)
		if err != nil {
			break
		}
		current = name

		ct := e.encrypted[current]
		if ct.C0.Q.Cmp(e.params.BigQ()) != 0 {
			break
		}

		preValues, _, err := e.decryptor().Decrypt(ct)
		require.NoError(t, err)

		switched, accepted, err := e.trySwitch(ct)
		require.NoError(t, err)
		exercised++

		if accepted {
			require.Equal(t, 0, switched.C0.Q.Cmp(e.params.Q()))
			postValues, _, err := e.decryptor().Decrypt(switched)
			require.NoError(t, err)
			require.Equal(t, preValues, postValues)
		} else {
			require.Equal(t, 0, switched.C0.Q.Cmp(ct.C0.Q))
			rolledBack, _, err := e.decryptor().Decrypt(switched)
			require.NoError(t, err)
			require.Equal(t, preValues, rolledBack)
		}
	}
	require.Greater(t, exercised, 0, "expected at least one call to trySwitch while still at modulus Q")
}
