package dwt

import (
	"math"
	"math/rand"
	"testing"
)

func TestNumXforms(t *testing.T) {
	cases := map[int]int{
		1:   0,
		7:   0,
		8:   1,
		15:  1,
		16:  2,
		64:  4,
		128: 5,
	}
	for n, want := range cases {
		if got := NumXforms(n); got != want {
			t.Errorf("NumXforms(%d) = %d, want %d", n, got, want)
		}
	}
}

func roundTripVolume(t *testing.T, nx, ny, nz int) {
	t.Helper()
	rng := rand.New(rand.NewSource(int64(nx*1000 + ny*10 + nz)))
	n := nx * ny * nz
	orig := make([]float64, n)
	for i := range orig {
		orig[i] = rng.NormFloat64() * 100
	}
	data := make([]float64, n)
	copy(data, orig)

	li := ForwardVolume(data, nx, ny, nz)
	InverseVolume(data, nx, ny, nz, li)

	for i := range orig {
		if math.Abs(data[i]-orig[i]) > 1e-6 {
			t.Fatalf("%dx%dx%d i=%d: got %v, want %v", nx, ny, nz, i, data[i], orig[i])
		}
	}
}

func TestForwardInverseVolumeRoundTrip(t *testing.T) {
	dims := [][3]int{
		{8, 8, 8},
		{16, 16, 16},
		{17, 16, 16},
		{64, 64, 64},
		{32, 32, 8},
		{8, 8, 32},
		{64, 64, 41},
		{17, 17, 17},
	}
	for _, d := range dims {
		roundTripVolume(t, d[0], d[1], d[2])
	}
}

func TestCombinedLevelsPickSmaller(t *testing.T) {
	li := LevelInfo{XYForms: 5, ZForms: 3}
	if got := li.Combined(); got != 3 {
		t.Errorf("Combined() = %d, want 3", got)
	}
}
