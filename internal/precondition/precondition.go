// Package precondition applies and reverses the numeric conditioning the
// SPECK coder requires before bitplane coding: subtracting the volume's
// mean, optionally dividing by its RMS magnitude (both computed via
// compensated summation so the reduction itself doesn't reintroduce the
// rounding error it's meant to avoid), and splitting each coefficient
// into a sign and a non-negative magnitude.
package precondition

import "math"

// KahanSum returns the sum of data using Kahan compensated summation,
// which tracks the low-order bits lost to each addition's rounding and
// feeds them back in on the next term.
func KahanSum(data []float64) float64 {
	var sum, c float64
	for _, v := range data {
		y := v - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum
}

// Mean returns the arithmetic mean of data, computed from a Kahan sum.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return KahanSum(data) / float64(len(data))
}

// SubtractMean removes the mean of data in place and returns the value
// removed, so the decoder can add it back.
func SubtractMean(data []float64) float64 {
	mean := Mean(data)
	for i := range data {
		data[i] -= mean
	}
	return mean
}

// AddMean reverses SubtractMean.
func AddMean(data []float64, mean float64) {
	for i := range data {
		data[i] += mean
	}
}

// RMS returns the root-mean-square of data, using a Kahan-summed sum of
// squares for the same reason Mean sums compensated.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum, c float64
	for _, v := range data {
		sq := v * v
		y := sq - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return math.Sqrt(sum / float64(len(data)))
}

// DivideByRMS scales data in place by 1/RMS(data) and returns the RMS
// value divided out, so the decoder can multiply it back in. A
// non-positive RMS (a silent or all-zero chunk) leaves data untouched
// and returns 0.
func DivideByRMS(data []float64) float64 {
	rms := RMS(data)
	if rms <= 0 {
		return 0
	}
	for i := range data {
		data[i] /= rms
	}
	return rms
}

// MultiplyByRMS reverses DivideByRMS. A non-positive rms is treated as
// "no scaling was applied" and left as a no-op.
func MultiplyByRMS(data []float64, rms float64) {
	if rms <= 0 {
		return
	}
	for i := range data {
		data[i] *= rms
	}
}

// SignMagnitude splits data in place into non-negative magnitudes,
// recording the original sign of each coefficient in signs (true means
// non-negative). It returns the largest magnitude found, which the
// caller uses to pick the coder's starting bitplane.
func SignMagnitude(data []float64, signs []bool) float64 {
	var maxMag float64
	for i, v := range data {
		if v < 0 {
			signs[i] = false
			v = -v
		} else {
			signs[i] = true
		}
		data[i] = v
		if v > maxMag {
			maxMag = v
		}
	}
	return maxMag
}

// RestoreSign reverses SignMagnitude, negating every coefficient whose
// recorded sign is false.
func RestoreSign(data []float64, signs []bool) {
	for i := range data {
		if !signs[i] {
			data[i] = -data[i]
		}
	}
}
