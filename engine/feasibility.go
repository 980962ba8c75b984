package engine

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Feasibility is the structured result of CheckFeasibility: whether the
// operation may proceed, any non-blocking warnings, the computed
// thresholds, and the informational depth the result would carry.
type Feasibility struct {
	Admit              bool
	Warnings           []string
	LeftDepth          int
	RightDepth         int
	NewDepth           int
	MaxNoiseLength     int
	CriticalOperand    string
	SwitchingThreshold int
	WarningThreshold   int
	CriticalThreshold  int
}

// depthOf returns the informational multiplicative depth of name:
// original ciphertexts have depth 0; an addition's depth is the max of
// its operands'; a multiplication's is that max plus one.
func (e *Engine) depthOf(name string) int {
	if _, ok := e.originals[name]; ok {
		return 0
	}
	idx := slices.IndexFunc(e.history, func(h HistoryEntry) bool { return h.Result == name })
	if idx < 0 {
		return 0
	}
	h := e.history[idx]
	var leftDepth, rightDepth int
	if h.LeftOp != "" {
		leftDepth = e.depthOf(h.LeftOp)
	}
	if h.RightOp != "" {
		rightDepth = e.depthOf(h.RightOp)
	}
	if h.OpType == "*" {
		return max(leftDepth, rightDepth) + 1
	}
	return max(leftDepth, rightDepth)
}

// CheckFeasibility inspects the noise of left and right at their current
// sk-view and decides, per the policy of spec §4.8, whether op may
// proceed.
func (e *Engine) CheckFeasibility(left, right, op string) (Feasibility, error) {
	var newDepth int
	leftDepth := e.depthOf(left)
	rightDepth := e.depthOf(right)
	switch op {
	case "+":
		newDepth = max(leftDepth, rightDepth)
	case "*":
		newDepth = max(leftDepth, rightDepth) + 1
	default:
		return Feasibility{}, fmt.Errorf("engine: unsupported operation %q", op)
	}

	var maxNoiseLen, maxAllowedLen int
	var criticalOperand string
	for _, operand := range [2]string{left, right} {
		info, err := e.noiseInfoFor(operand)
		if err != nil {
			return Feasibility{}, err
		}
		if info.noiseLen > maxNoiseLen {
			maxNoiseLen = info.noiseLen
			criticalOperand = operand
			maxAllowedLen = info.maxLen
		}
	}

	switching, warning, critical := thresholds(maxAllowedLen)
	f := Feasibility{
		Admit:              true,
		LeftDepth:          leftDepth,
		RightDepth:         rightDepth,
		NewDepth:           newDepth,
		MaxNoiseLength:     maxNoiseLen,
		CriticalOperand:    criticalOperand,
		SwitchingThreshold: switching,
		WarningThreshold:   warning,
		CriticalThreshold:  critical,
	}

	if maxNoiseLen > critical {
		f.Admit = false
		return f, nil
	}
	if maxNoiseLen > warning {
		f.Warnings = append(f.Warnings, fmt.Sprintf(
			"high noise in %s: %d digits exceeds warning threshold %d", criticalOperand, maxNoiseLen, warning))
	}
	return f, nil
}
