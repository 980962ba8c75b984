package engine

import (
	"math/big"

	"github.com/montanaflynn/stats"
)

// NoiseReport carries spec §4.7's required {noise, max_noise, noise_len,
// max_len, percentage} tuple plus descriptive statistics over the
// underlying noise coefficient vector, surfaced as an additional
// diagnostic beyond what the spec itself requires.
type NoiseReport struct {
	Noise      *big.Int
	MaxNoise   *big.Int
	NoiseLen   int
	MaxLen     int
	Percentage float64
	Mean       float64
	StdDev     float64
}

type noiseInfo struct {
	noise    *big.Int
	maxNoise *big.Int
	noiseLen int
	maxLen   int
}

// decimalLen returns the number of decimal digits of |x|, matching the
// original source's len(str(noise)) noise-length heuristic.
func decimalLen(x *big.Int) int {
	abs := new(big.Int).Abs(x)
	if abs.Sign() == 0 {
		return 1
	}
	return len(abs.String())
}

// thresholds computes the three-tier dynamic thresholds of spec §4.8 from
// maxLen, the decimal digit count of the ciphertext's current max_noise.
func thresholds(maxLen int) (switching, warning, critical int) {
	switching = int(float64(maxLen) * 0.63)
	if switching < 1 {
		switching = 1
	}
	warning = int(float64(maxLen) * 0.75)
	if warning < switching+3 {
		warning = switching + 3
	}
	critical = int(float64(maxLen) * 0.85)
	if critical < warning+3 {
		critical = warning + 3
	}
	return
}

func (e *Engine) noiseInfoFor(name string) (noiseInfo, error) {
	ct, ok := e.encrypted[name]
	if !ok {
		return noiseInfo{}, newError(KindUnknownName, "unknown ciphertext "+name)
	}
	_, noise, err := e.decryptor().Decrypt(ct)
	if err != nil {
		return noiseInfo{}, wrapError(KindDecryptFailure, "noise check failed", err)
	}
	maxNoise := new(big.Int).Rsh(ct.C0.Q, 1)
	return noiseInfo{
		noise:    noise,
		maxNoise: maxNoise,
		noiseLen: decimalLen(noise),
		maxLen:   decimalLen(maxNoise),
	}, nil
}

// MeasureNoise reports the noise diagnostics for a stored ciphertext.
func (e *Engine) MeasureNoise(name string) (NoiseReport, error) {
	ct, ok := e.encrypted[name]
	if !ok {
		return NoiseReport{}, newError(KindUnknownName, "unknown ciphertext "+name)
	}

	vector, err := e.decryptor().NoiseVector(ct)
	if err != nil {
		return NoiseReport{}, wrapError(KindDecryptFailure, "noise measurement failed", err)
	}

	floats := make([]float64, len(vector))
	maxAbs := new(big.Int)
	for i, c := range vector {
		abs := new(big.Int).Abs(c)
		if abs.Cmp(maxAbs) > 0 {
			maxAbs = abs
		}
		f, _ := new(big.Float).SetInt(abs).Float64()
		floats[i] = f
	}
	mean, _ := stats.Mean(floats)
	stddev, _ := stats.StandardDeviation(floats)

	maxNoise := new(big.Int).Rsh(ct.C0.Q, 1)
	percentage := 100.0
	if maxNoise.Sign() > 0 {
		noiseF, _ := new(big.Float).SetInt(maxAbs).Float64()
		maxF, _ := new(big.Float).SetInt(maxNoise).Float64()
		percentage = noiseF / maxF * 100.0
	}

	return NoiseReport{
		Noise:      maxAbs,
		MaxNoise:   maxNoise,
		NoiseLen:   decimalLen(maxAbs),
		MaxLen:     decimalLen(maxNoise),
		Percentage: percentage,
		Mean:       mean,
		StdDev:     stddev,
	}, nil
}
