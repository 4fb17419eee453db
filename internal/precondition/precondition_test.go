package precondition

import (
	"math"
	"math/rand"
	"testing"
)

func TestKahanSumMatchesNaiveForSmallInputs(t *testing.T) {
	data := []float64{1.0, 2.0, 3.0, 4.0, 5.0}
	if got, want := KahanSum(data), 15.0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestKahanSumBeatsNaiveSummation(t *testing.T) {
	// A classic ill-conditioned sum: one huge value followed by many
	// small ones that a naive running sum would lose to rounding.
	n := 100000
	data := make([]float64, n+1)
	data[0] = 1e16
	for i := 1; i <= n; i++ {
		data[i] = 1.0
	}
	want := 1e16 + float64(n)

	var naive float64
	for _, v := range data {
		naive += v
	}

	got := KahanSum(data)
	if math.Abs(got-want) > math.Abs(naive-want) {
		t.Errorf("kahan sum %v not closer to %v than naive %v", got, want, naive)
	}
}

func TestSubtractMeanAddMeanRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	orig := make([]float64, 1000)
	for i := range orig {
		orig[i] = rng.NormFloat64()*5 + 42
	}
	data := make([]float64, len(orig))
	copy(data, orig)

	mean := SubtractMean(data)
	AddMean(data, mean)

	for i := range orig {
		if math.Abs(data[i]-orig[i]) > 1e-9 {
			t.Fatalf("i=%d: got %v, want %v", i, data[i], orig[i])
		}
	}
}

func TestDivideByRMSMultiplyByRMSRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	orig := make([]float64, 1000)
	for i := range orig {
		orig[i] = rng.NormFloat64() * 3
	}
	data := make([]float64, len(orig))
	copy(data, orig)

	rms := DivideByRMS(data)
	if rms <= 0 {
		t.Fatalf("rms = %v, want positive", rms)
	}
	if got := RMS(data); math.Abs(got-1) > 1e-9 {
		t.Errorf("RMS of scaled data = %v, want ~1", got)
	}

	MultiplyByRMS(data, rms)
	for i := range orig {
		if math.Abs(data[i]-orig[i]) > 1e-9 {
			t.Fatalf("i=%d: got %v, want %v", i, data[i], orig[i])
		}
	}
}

func TestDivideByRMSAllZeroLeavesDataUnchanged(t *testing.T) {
	data := make([]float64, 16)
	rms := DivideByRMS(data)
	if rms != 0 {
		t.Errorf("rms = %v, want 0 for an all-zero chunk", rms)
	}
	for _, v := range data {
		if v != 0 {
			t.Errorf("data mutated for an all-zero chunk: %v", data)
			break
		}
	}
}

func TestMultiplyByRMSNoOpForNonPositiveRMS(t *testing.T) {
	data := []float64{1, 2, 3}
	orig := append([]float64{}, data...)
	MultiplyByRMS(data, 0)
	for i := range orig {
		if data[i] != orig[i] {
			t.Errorf("i=%d: got %v, want unchanged %v", i, data[i], orig[i])
		}
	}
}

func TestSignMagnitudeRestoreSignRoundTrip(t *testing.T) {
	data := []float64{-3.5, 0, 2.25, -0.001, 9.9}
	orig := append([]float64{}, data...)
	signs := make([]bool, len(data))

	maxMag := SignMagnitude(data, signs)
	if maxMag != 9.9 {
		t.Errorf("maxMag = %v, want 9.9", maxMag)
	}
	for i, v := range data {
		if v < 0 {
			t.Errorf("data[%d] = %v, should be non-negative", i, v)
		}
	}

	RestoreSign(data, signs)
	for i := range orig {
		if data[i] != orig[i] {
			t.Errorf("i=%d: got %v, want %v", i, data[i], orig[i])
		}
	}
}

func TestSignMagnitudeZeroIsPositive(t *testing.T) {
	data := []float64{0}
	signs := make([]bool, 1)
	SignMagnitude(data, signs)
	if !signs[0] {
		t.Error("zero should be recorded as non-negative")
	}
}
