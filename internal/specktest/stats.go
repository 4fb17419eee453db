// Package specktest provides reconstruction-quality measurements used
// only by tests: RMSE, peak-signal-to-noise ratio, and maximum absolute
// error between an original and a reconstructed volume. It is not part
// of the public library surface.
package specktest

import "math"

// KahanSum sums data with Kahan compensated summation, matching the
// precision the encoder's own mean-subtraction step relies on so test
// comparisons aren't skewed by summation error the library itself
// doesn't have.
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

// RMSE returns the root-mean-square error between orig and recon, which
// must be the same length.
func RMSE(orig, recon []float64) float64 {
	sq := make([]float64, len(orig))
	for i := range orig {
		d := orig[i] - recon[i]
		sq[i] = d * d
	}
	return math.Sqrt(KahanSum(sq) / float64(len(orig)))
}

// Lmax returns the maximum absolute error between orig and recon.
func Lmax(orig, recon []float64) float64 {
	var max float64
	for i := range orig {
		d := math.Abs(orig[i] - recon[i])
		if d > max {
			max = d
		}
	}
	return max
}

// PSNR returns the peak signal-to-noise ratio in decibels, defined from
// the value range of orig and the mean squared error between orig and
// recon. Returns +Inf if the two volumes are bit-identical.
func PSNR(orig, recon []float64) float64 {
	min, max := orig[0], orig[0]
	for _, v := range orig {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	rangeSq := (max - min) * (max - min)
	if rangeSq == 0 {
		rangeSq = 1
	}

	sq := make([]float64, len(orig))
	for i := range orig {
		d := orig[i] - recon[i]
		sq[i] = d * d
	}
	mse := KahanSum(sq) / float64(len(orig))
	if mse == 0 {
		return math.Inf(1)
	}
	return -10 * math.Log10(mse/rangeSq)
}
