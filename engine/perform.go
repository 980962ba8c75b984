package engine

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/atraykov02/bgvision/relin"
	"github.com/atraykov02/bgvision/rlwe"
)

// Perform evaluates op over the ciphertexts stored at left and right,
// auto-switching operands as needed, and on success stores the result
// under a freshly assigned name and records a history entry. It returns
// the new name, or a structured EngineError on any input, policy, or
// arithmetic failure.
func (e *Engine) Perform(left, op, right string) (string, error) {
	feas, err := e.CheckFeasibility(left, right, op)
	if err != nil {
		return "", err
	}
	if !feas.Admit {
		return "", blockedError(ReasonCriticalPre, fmt.Sprintf(
			"noise %d exceeds critical threshold %d for operand %s", feas.MaxNoiseLength, feas.CriticalThreshold, feas.CriticalOperand))
	}

	if feas.MaxNoiseLength > feas.SwitchingThreshold {
		for _, operand := range [2]string{left, right} {
			if _, err := e.AutoSwitch(operand); err != nil {
				var ee *EngineError
				if errors.As(err, &ee) && ee.Kind == KindOperationBlocked {
					continue
				}
				return "", err
			}
		}
	}

	leftCt, ok := e.encrypted[left]
	if !ok {
		return "", newError(KindUnknownName, "unknown ciphertext "+left)
	}
	rightCt, ok := e.encrypted[right]
	if !ok {
		return "", newError(KindUnknownName, "unknown ciphertext "+right)
	}

	leftCt, rightCt, err = e.reconcileModuli(left, leftCt, right, rightCt)
	if err != nil {
		return "", err
	}

	resultCt, err := e.evaluate(op, leftCt, rightCt)
	if err != nil {
		return "", err
	}

	_, noise, err := e.decryptor().Decrypt(resultCt)
	if err != nil {
		return "", wrapError(KindDecryptFailure, "result decryption failed", err)
	}
	maxNoise := new(big.Int).Rsh(resultCt.C0.Q, 1)
	noiseLen := decimalLen(noise)
	_, _, critical := thresholds(decimalLen(maxNoise))
	if noiseLen > critical {
		return "", blockedError(ReasonCriticalPost, fmt.Sprintf(
			"result noise %d exceeds critical threshold %d", noiseLen, critical))
	}

	name := e.nextName()
	e.encrypted[name] = resultCt
	e.history = append(e.history, HistoryEntry{
		Result:      name,
		LeftOp:      left,
		RightOp:     right,
		OpType:      op,
		Success:     true,
		Depth:       feas.NewDepth,
		Fingerprint: fingerprint(resultCt),
	})
	return name, nil
}

// reconcileModuli brings left and right to the same modulus if they
// differ, switching down whichever side still sits at Q, matching the
// original source's modulus-mismatch handling in perform_operation.
func (e *Engine) reconcileModuli(leftName string, leftCt *rlwe.Ciphertext, rightName string, rightCt *rlwe.Ciphertext) (*rlwe.Ciphertext, *rlwe.Ciphertext, error) {
	if leftCt.C0.Q.Cmp(rightCt.C0.Q) == 0 {
		return leftCt, rightCt, nil
	}

	bigQ := e.params.BigQ()
	q := e.params.Q()
	switch {
	case leftCt.C0.Q.Cmp(bigQ) == 0 && rightCt.C0.Q.Cmp(q) == 0:
		switched, accepted, err := e.trySwitch(leftCt)
		if err != nil {
			return nil, nil, err
		}
		if accepted {
			leftCt = switched
			e.encrypted[leftName] = leftCt
		}
	case rightCt.C0.Q.Cmp(bigQ) == 0 && leftCt.C0.Q.Cmp(q) == 0:
		switched, accepted, err := e.trySwitch(rightCt)
		if err != nil {
			return nil, nil, err
		}
		if accepted {
			rightCt = switched
			e.encrypted[rightName] = rightCt
		}
	}

	if leftCt.C0.Q.Cmp(rightCt.C0.Q) != 0 {
		return nil, nil, wrapError(KindRingMismatch, "operands remain at different moduli after switching", errors.New("modulus mismatch"))
	}
	return leftCt, rightCt, nil
}

func (e *Engine) evaluate(op string, leftCt, rightCt *rlwe.Ciphertext) (*rlwe.Ciphertext, error) {
	switch op {
	case "+":
		c0, err := leftCt.C0.Add(rightCt.C0)
		if err != nil {
			return nil, wrapError(KindRingMismatch, "addition failed", err)
		}
		c1, err := leftCt.C1.Add(rightCt.C1)
		if err != nil {
			return nil, wrapError(KindRingMismatch, "addition failed", err)
		}
		return &rlwe.Ciphertext{C0: c0, C1: c1}, nil

	case "*":
		c0, err := leftCt.C0.Mul(rightCt.C0)
		if err != nil {
			return nil, wrapError(KindRingMismatch, "multiplication failed", err)
		}
		c0c1, err := leftCt.C0.Mul(rightCt.C1)
		if err != nil {
			return nil, wrapError(KindRingMismatch, "multiplication failed", err)
		}
		c1c0, err := leftCt.C1.Mul(rightCt.C0)
		if err != nil {
			return nil, wrapError(KindRingMismatch, "multiplication failed", err)
		}
		c1, err := c0c1.Add(c1c0)
		if err != nil {
			return nil, wrapError(KindRingMismatch, "multiplication failed", err)
		}
		c2, err := leftCt.C1.Mul(rightCt.C1)
		if err != nil {
			return nil, wrapError(KindRingMismatch, "multiplication failed", err)
		}
		mulCt := &rlwe.Ciphertext{C0: c0, C1: c1, C2: c2}

		rlk, err := e.relinKeyFor(mulCt.C0.Q)
		if err != nil {
			return nil, wrapError(KindRelinFailure, "could not build relinearization key", err)
		}
		relinearized, err := relin.Apply(rlk, mulCt)
		if err != nil {
			return nil, wrapError(KindRelinFailure, "relinearization failed", err)
		}
		return relinearized, nil

	default:
		return nil, fmt.Errorf("engine: unsupported operation %q", op)
	}
}
