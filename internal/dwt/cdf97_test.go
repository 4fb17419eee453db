package dwt

import (
	"math"
	"math/rand"
	"testing"
)

func roundTrip1D(t *testing.T, n int) {
	t.Helper()
	rng := rand.New(rand.NewSource(int64(n)))
	orig := make([]float64, n)
	for i := range orig {
		orig[i] = rng.NormFloat64() * 10
	}
	data := make([]float64, n)
	copy(data, orig)

	Forward1D(data, n)
	Inverse1D(data, n)

	for i := range orig {
		if math.Abs(data[i]-orig[i]) > 1e-8 {
			t.Fatalf("n=%d i=%d: got %v, want %v", n, i, data[i], orig[i])
		}
	}
}

func TestForwardInverse1DRoundTrip(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 8, 9, 16, 17, 64, 65, 127, 128} {
		roundTrip1D(t, n)
	}
}

func TestForward1DLengthOneIsNoop(t *testing.T) {
	data := []float64{42}
	Forward1D(data, 1)
	if data[0] != 42 {
		t.Fatalf("length-1 transform should be a no-op, got %v", data[0])
	}
}

func TestDeinterleaveInterleaveRoundTrip(t *testing.T) {
	for _, n := range []int{2, 3, 4, 5, 8, 9} {
		orig := make([]float64, n)
		for i := range orig {
			orig[i] = float64(i)
		}
		data := make([]float64, n)
		copy(data, orig)
		deinterleave(data, n)
		interleave(data, n)
		for i := range orig {
			if data[i] != orig[i] {
				t.Fatalf("n=%d i=%d: got %v, want %v", n, i, data[i], orig[i])
			}
		}
	}
}
