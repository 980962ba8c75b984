package engine

import (
	"fmt"
	"math/big"

	"github.com/atraykov02/bgvision/modswitch"
	"github.com/atraykov02/bgvision/rlwe"
)

// AutoSwitch replaces encrypted[name] with its switched (modulus-q) pair
// when its noise exceeds the switching threshold and it is still stored
// at modulus Q; it is a no-op when the stored pair is already at q or
// noise has not yet crossed the threshold. It reports whether a switch
// was applied.
func (e *Engine) AutoSwitch(name string) (bool, error) {
	ct, ok := e.encrypted[name]
	if !ok {
		return false, newError(KindUnknownName, "unknown ciphertext "+name)
	}
	if ct.C0.Q.Cmp(e.params.BigQ()) != 0 {
		return false, nil
	}

	info, err := e.noiseInfoFor(name)
	if err != nil {
		return false, err
	}
	switching, _, critical := thresholds(info.maxLen)
	if info.noiseLen <= switching {
		return false, nil
	}
	if info.noiseLen > critical {
		return false, blockedError(ReasonSwitchFailed, fmt.Sprintf(
			"noise %d exceeds critical threshold %d, switching not attempted", info.noiseLen, critical))
	}

	switched, accepted, err := e.trySwitch(ct)
	if err != nil {
		return false, err
	}
	if !accepted {
		return false, nil
	}
	e.encrypted[name] = switched
	return true, nil
}

// switchAcceptanceThreshold is the minimum fraction of coefficients that
// must agree between the pre- and post-switch decrypted plaintexts for a
// switch to be accepted, per spec §4.8 "Switching admission". Below it,
// trySwitch rolls back to the original, unswitched ciphertext.
const switchAcceptanceThreshold = 0.7

// matchRatio returns the fraction of positions at which pre and post carry
// equal values, the switching-acceptance heuristic's core computation.
func matchRatio(pre, post []*big.Int) float64 {
	matches := 0
	for i := range pre {
		if pre[i].Cmp(post[i]) == 0 {
			matches++
		}
	}
	return float64(matches) / float64(len(pre))
}

// trySwitch scales ct down from Q to q and checks the switching-
// acceptance heuristic of spec §4.8: decrypting the pre- and post-switch
// ciphertexts with their respective sk-views must agree on at least
// switchAcceptanceThreshold of coefficients, or the switch is rolled back
// and the original ciphertext is returned.
func (e *Engine) trySwitch(ct *rlwe.Ciphertext) (*rlwe.Ciphertext, bool, error) {
	dec := e.decryptor()
	preValues, _, err := dec.Decrypt(ct)
	if err != nil {
		return nil, false, wrapError(KindDecryptFailure, "pre-switch decrypt failed", err)
	}

	smallMod := e.params.Q()
	tBig := e.params.TBig()
	c0Switched, err := modswitch.Switch(ct.C0, smallMod, tBig)
	if err != nil {
		return nil, false, blockedError(ReasonSwitchFailed, fmt.Sprintf("modulus switching failed: %v", err))
	}
	c1Switched, err := modswitch.Switch(ct.C1, smallMod, tBig)
	if err != nil {
		return nil, false, blockedError(ReasonSwitchFailed, fmt.Sprintf("modulus switching failed: %v", err))
	}
	switched := &rlwe.Ciphertext{C0: c0Switched, C1: c1Switched}

	postValues, _, err := dec.Decrypt(switched)
	if err != nil {
		return nil, false, wrapError(KindDecryptFailure, "post-switch decrypt failed", err)
	}

	if matchRatio(preValues, postValues) < switchAcceptanceThreshold {
		return ct, false, nil
	}
	return switched, true, nil
}
