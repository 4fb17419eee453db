package dwt

import "math"

// LevelInfo records how many wavelet decomposition levels were applied
// along each axis group. The SPECK coder's set-partitioning initializer
// needs these counts to know how many octant-split levels act on all
// three axes versus only X/Y or only Z.
type LevelInfo struct {
	// XYForms is the number of levels that transformed the X and Y axes.
	XYForms int
	// ZForms is the number of levels that transformed the Z axis.
	ZForms int
}

// Combined returns the number of levels that transformed all three axes
// together, i.e. the smaller of XYForms and ZForms.
func (li LevelInfo) Combined() int {
	if li.XYForms < li.ZForms {
		return li.XYForms
	}
	return li.ZForms
}

// ComputeLevelInfo returns the level counts ForwardVolume would apply to
// a volume of the given dimensions, without performing the transform.
// Callers that need to know a chunk's decomposition structure ahead of
// (or without re-running) the transform, such as a decoder rebuilding
// the same structure the encoder used, call this directly.
func ComputeLevelInfo(nx, ny, nz int) LevelInfo {
	return LevelInfo{
		XYForms: minInt(NumXforms(nx), NumXforms(ny)),
		ZForms:  NumXforms(nz),
	}
}

// NumXforms returns how many CDF 9/7 decomposition levels a single axis
// of length n supports: floor(log2(n/8)) + 1, the number of levels whose
// input is still at least 8 samples wide, or 0 if n is below 8.
func NumXforms(n int) int {
	if n <= 0 {
		return 0
	}
	f := math.Log2(float64(n) / 8.0)
	if f < 0 {
		return 0
	}
	return int(f) + 1
}

// ForwardVolume applies the multi-level separable CDF 9/7 transform to a
// volume stored in row-major (x fastest, then y, then z) order. It
// returns the per-axis level counts actually applied.
//
// Each level transforms the current low-pass sub-cube: along X, then Y,
// then Z while all three axes still have levels remaining; once one
// axis group runs out, the remaining levels transform only the axes
// still eligible (X+Y, or Z alone).
func ForwardVolume(data []float64, nx, ny, nz int) LevelInfo {
	li := ComputeLevelInfo(nx, ny, nz)
	xyForms, zForms, combined := li.XYForms, li.ZForms, li.Combined()

	cx, cy, cz := nx, ny, nz
	for lvl := 0; lvl < combined; lvl++ {
		forwardLevelXYZ(data, nx, ny, cx, cy, cz)
		cx, cy, cz = halfCeil(cx), halfCeil(cy), halfCeil(cz)
	}

	switch {
	case xyForms > zForms:
		for lvl := combined; lvl < xyForms; lvl++ {
			forwardLevelXY(data, nx, ny, cx, cy, cz)
			cx, cy = halfCeil(cx), halfCeil(cy)
		}
	case zForms > xyForms:
		for lvl := combined; lvl < zForms; lvl++ {
			forwardLevelZ(data, nx, ny, cx, cy, cz)
			cz = halfCeil(cz)
		}
	}

	return LevelInfo{XYForms: xyForms, ZForms: zForms}
}

// InverseVolume reverses ForwardVolume given the level counts it
// reported.
func InverseVolume(data []float64, nx, ny, nz int, li LevelInfo) {
	combined := li.Combined()

	// Recompute the low-pass cube sizes at every level so we can unwind
	// from the coarsest level back to full resolution.
	sizesX, sizesY, sizesZ := cubeSizes(nx, li.XYForms), cubeSizes(ny, li.XYForms), cubeSizes(nz, li.ZForms)

	switch {
	case li.XYForms > li.ZForms:
		for lvl := li.XYForms - 1; lvl >= combined; lvl-- {
			cx, cy := sizesX[lvl], sizesY[lvl]
			cz := sizesZ[li.ZForms]
			inverseLevelXY(data, nx, ny, cx, cy, cz)
		}
	case li.ZForms > li.XYForms:
		for lvl := li.ZForms - 1; lvl >= combined; lvl-- {
			cz := sizesZ[lvl]
			cx, cy := sizesX[li.XYForms], sizesY[li.XYForms]
			inverseLevelZ(data, nx, ny, cx, cy, cz)
		}
	}

	for lvl := combined - 1; lvl >= 0; lvl-- {
		cx, cy, cz := sizesX[lvl], sizesY[lvl], sizesZ[lvl]
		inverseLevelXYZ(data, nx, ny, cx, cy, cz)
	}
}

// cubeSizes returns the low-pass extent along one axis at every level
// from 0 (full resolution) through forms (the coarsest level reached),
// inclusive.
func cubeSizes(n, forms int) []int {
	sizes := make([]int, forms+1)
	c := n
	for lvl := 0; lvl <= forms; lvl++ {
		sizes[lvl] = c
		c = halfCeil(c)
	}
	return sizes
}

func halfCeil(n int) int {
	return (n + 1) / 2
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// forwardLevelXYZ transforms the cx*cy*cz low-pass sub-cube along X,
// then Y, then Z.
func forwardLevelXYZ(data []float64, nx, ny, cx, cy, cz int) {
	forwardX(data, nx, ny, cx, cy, cz)
	forwardY(data, nx, ny, cx, cy, cz)
	forwardZ(data, nx, ny, cx, cy, cz)
}

func inverseLevelXYZ(data []float64, nx, ny, cx, cy, cz int) {
	inverseZ(data, nx, ny, cx, cy, cz)
	inverseY(data, nx, ny, cx, cy, cz)
	inverseX(data, nx, ny, cx, cy, cz)
}

func forwardLevelXY(data []float64, nx, ny, cx, cy, cz int) {
	forwardX(data, nx, ny, cx, cy, cz)
	forwardY(data, nx, ny, cx, cy, cz)
}

func inverseLevelXY(data []float64, nx, ny, cx, cy, cz int) {
	inverseY(data, nx, ny, cx, cy, cz)
	inverseX(data, nx, ny, cx, cy, cz)
}

func forwardLevelZ(data []float64, nx, ny, cx, cy, cz int) {
	forwardZ(data, nx, ny, cx, cy, cz)
}

func inverseLevelZ(data []float64, nx, ny, cx, cy, cz int) {
	inverseZ(data, nx, ny, cx, cy, cz)
}

func forwardX(data []float64, nx, ny, cx, cy, cz int) {
	line := make([]float64, cx)
	for z := 0; z < cz; z++ {
		for y := 0; y < cy; y++ {
			base := z*nx*ny + y*nx
			for x := 0; x < cx; x++ {
				line[x] = data[base+x]
			}
			Forward1D(line, cx)
			for x := 0; x < cx; x++ {
				data[base+x] = line[x]
			}
		}
	}
}

func inverseX(data []float64, nx, ny, cx, cy, cz int) {
	line := make([]float64, cx)
	for z := 0; z < cz; z++ {
		for y := 0; y < cy; y++ {
			base := z*nx*ny + y*nx
			for x := 0; x < cx; x++ {
				line[x] = data[base+x]
			}
			Inverse1D(line, cx)
			for x := 0; x < cx; x++ {
				data[base+x] = line[x]
			}
		}
	}
}

func forwardY(data []float64, nx, ny, cx, cy, cz int) {
	line := make([]float64, cy)
	for z := 0; z < cz; z++ {
		for x := 0; x < cx; x++ {
			base := z*nx*ny + x
			for y := 0; y < cy; y++ {
				line[y] = data[base+y*nx]
			}
			Forward1D(line, cy)
			for y := 0; y < cy; y++ {
				data[base+y*nx] = line[y]
			}
		}
	}
}

func inverseY(data []float64, nx, ny, cx, cy, cz int) {
	line := make([]float64, cy)
	for z := 0; z < cz; z++ {
		for x := 0; x < cx; x++ {
			base := z*nx*ny + x
			for y := 0; y < cy; y++ {
				line[y] = data[base+y*nx]
			}
			Inverse1D(line, cy)
			for y := 0; y < cy; y++ {
				data[base+y*nx] = line[y]
			}
		}
	}
}

func forwardZ(data []float64, nx, ny, cx, cy, cz int) {
	line := make([]float64, cz)
	stride := nx * ny
	for y := 0; y < cy; y++ {
		for x := 0; x < cx; x++ {
			base := y*nx + x
			for z := 0; z < cz; z++ {
				line[z] = data[base+z*stride]
			}
			Forward1D(line, cz)
			for z := 0; z < cz; z++ {
				data[base+z*stride] = line[z]
			}
		}
	}
}

func inverseZ(data []float64, nx, ny, cx, cy, cz int) {
	line := make([]float64, cz)
	stride := nx * ny
	for y := 0; y < cy; y++ {
		for x := 0; x < cx; x++ {
			base := y*nx + x
			for z := 0; z < cz; z++ {
				line[z] = data[base+z*stride]
			}
			Inverse1D(line, cz)
			for z := 0; z < cz; z++ {
				data[base+z*stride] = line[z]
			}
		}
	}
}
