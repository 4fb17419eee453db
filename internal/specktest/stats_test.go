package specktest

import (
	"math"
	"testing"
)

func TestRMSEZeroForIdenticalVolumes(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}
	if got := RMSE(data, data); got != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestRMSEKnownValue(t *testing.T) {
	orig := []float64{0, 0, 0, 0}
	recon := []float64{1, 1, 1, 1}
	if got, want := RMSE(orig, recon), 1.0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLmax(t *testing.T) {
	orig := []float64{0, 5, -3}
	recon := []float64{0, 2, 1}
	if got, want := Lmax(orig, recon), 4.0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPSNRInfiniteForIdenticalVolumes(t *testing.T) {
	data := []float64{1, 2, 3}
	if got := PSNR(data, data); !math.IsInf(got, 1) {
		t.Errorf("got %v, want +Inf", got)
	}
}

func TestPSNRDecreasesAsErrorGrows(t *testing.T) {
	orig := []float64{0, 10, 20, 30}
	small := []float64{0, 10, 20, 29}
	big := []float64{0, 10, 20, 10}

	psnrSmall := PSNR(orig, small)
	psnrBig := PSNR(orig, big)
	if psnrSmall <= psnrBig {
		t.Errorf("expected smaller error to have higher PSNR: small=%v big=%v", psnrSmall, psnrBig)
	}
}
