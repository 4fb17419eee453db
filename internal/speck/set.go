// Package speck implements the SPECK (Set Partitioned Embedded bloCK)
// progressive bitplane coder: encoding and decoding a volume of
// wavelet-transformed coefficients into a truncatable bitstream ordered
// by decreasing contribution to reconstruction quality.
package speck

// Set3D is a rectangular region of the coefficient volume tracked by the
// set-partitioning sorting pass. PartLevel counts how many axis splits
// separate it from the whole-volume set, and determines which List of
// Insignificant Sets bucket it lives in.
type Set3D struct {
	X, Y, Z       int
	Lx, Ly, Lz    int
	PartLevel     int
	Garbage       bool
}

// IsPixel reports whether the set has shrunk to a single coefficient.
func (s Set3D) IsPixel() bool {
	return s.Lx == 1 && s.Ly == 1 && s.Lz == 1
}

// IsEmpty reports whether the set has no coefficients at all.
func (s Set3D) IsEmpty() bool {
	return s.Lx == 0 || s.Ly == 0 || s.Lz == 0
}

// splitLen divides n into a "keep" half and a "split off" half, biasing
// the extra element (for odd n) toward the first half. A length-1 axis
// produces an empty second half, meaning that axis does not split.
func splitLen(n int) [2]int {
	if n <= 1 {
		return [2]int{n, 0}
	}
	return [2]int{n - n/2, n / 2}
}

// partition splits s into up to 8 octants, subdividing only the axes
// whose corresponding flag is true. Axes left false pass through
// whole. The returned subsets are ordered by sub-index
// xBit + 2*yBit + 4*zBit (1 if the subset is the "far" half along that
// axis, 0 if it's the "near" half), with empty halves omitted, so the
// slice index equals the sub-index only when every axis splits.
func partition(s Set3D, splitX, splitY, splitZ bool) []Set3D {
	xs := [2]int{s.Lx, 0}
	if splitX {
		xs = splitLen(s.Lx)
	}
	ys := [2]int{s.Ly, 0}
	if splitY {
		ys = splitLen(s.Ly)
	}
	zs := [2]int{s.Lz, 0}
	if splitZ {
		zs = splitLen(s.Lz)
	}

	xoff := [2]int{0, xs[0]}
	yoff := [2]int{0, ys[0]}
	zoff := [2]int{0, zs[0]}

	nextLevel := s.PartLevel
	if splitX && xs[1] > 0 {
		nextLevel++
	}
	if splitY && ys[1] > 0 {
		nextLevel++
	}
	if splitZ && zs[1] > 0 {
		nextLevel++
	}

	out := make([]Set3D, 0, 8)
	for zb := 0; zb < 2; zb++ {
		if zs[zb] == 0 {
			continue
		}
		for yb := 0; yb < 2; yb++ {
			if ys[yb] == 0 {
				continue
			}
			for xb := 0; xb < 2; xb++ {
				if xs[xb] == 0 {
					continue
				}
				out = append(out, Set3D{
					X: s.X + xoff[xb], Y: s.Y + yoff[yb], Z: s.Z + zoff[zb],
					Lx: xs[xb], Ly: ys[yb], Lz: zs[zb],
					PartLevel: nextLevel,
				})
			}
		}
	}
	return out
}
