package audio

import "math"

// TargetRate is the sample rate every ASR session consumes
const TargetRate = 16000

// Resample converts mono samples at srcRate to TargetRate using linear
// interpolation. Input already at TargetRate, or empty, is returned as-is.
func Resample(samples []float32, srcRate uint32) []float32 {
	if srcRate == TargetRate || srcRate == 0 || len(samples) == 0 {
		return samples
	}

	ratio := float64(TargetRate) / float64(srcRate)
	n := int(math.Round(float64(len(samples)) * ratio))
	if n <= 0 {
		return []float32{}
	}

	last := len(samples) - 1
	out := make([]float32, n)
	for i := range out {
		pos := float64(i) / ratio
		idx := int(pos)
		if idx > last {
			idx = last
		}
		next := min(idx+1, last)
		frac := float32(pos - float64(idx))
		a, b := samples[idx], samples[next]
		out[i] = a + (b-a)*frac
	}
	return out
}
