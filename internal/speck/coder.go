package speck

import (
	"math"

	"github.com/speck3d/speck3d/internal/bio"
)

// LevelInfo mirrors the per-axis wavelet decomposition level counts the
// dwt package reports, so the coder's initial set partitioning can
// follow the same subband structure the transform produced. Kept as a
// small local type instead of importing internal/dwt directly, so this
// package stays independently testable.
type LevelInfo struct {
	XYForms int
	ZForms  int
}

// Combined returns how many levels transformed all three axes together.
func (li LevelInfo) Combined() int {
	if li.XYForms < li.ZForms {
		return li.XYForms
	}
	return li.ZForms
}

// Mode selects how an Encode/Decode run decides when to stop.
type Mode int

const (
	// FixedRate stops once a caller-supplied bit budget is spent,
	// rounded up to a whole byte.
	FixedRate Mode = iota
	// FixedQuantization stops once every coefficient has been refined
	// down to a caller-supplied bitplane, regardless of stream size.
	FixedQuantization
)

// Config controls termination behavior for a single Encode or Decode
// call. Both sides of a round trip must agree on it.
type Config struct {
	Mode Mode
	// BitBudget is the number of bits to spend, used when Mode is
	// FixedRate. Zero means 64 bits per coefficient, the largest budget
	// Encode accepts.
	BitBudget uint64
	// QZTermLevel is the bitplane (inclusive) at which refinement
	// stops, used when Mode is FixedQuantization.
	QZTermLevel int
}

const maxIterations = 128

// flatIndex converts a 3-D coordinate into an offset into a row-major
// (x fastest) coefficient buffer.
func flatIndex(nx, ny, x, y, z int) int {
	return z*nx*ny + y*nx + x
}

type coder struct {
	nx, ny, nz int

	coeffs []float64 // encode only
	recon  []float64
	signs  []bool

	lip    []int
	lis    [][]Set3D
	lspOld []int
	lspNew []int

	threshold float64

	out        *bio.BitBuffer // encode only
	in         []bool         // decode only
	pos        int
	budgetBits int // -1 means unbounded
}

func (c *coder) idx(x, y, z int) int {
	return flatIndex(c.nx, c.ny, x, y, z)
}

func (c *coder) emitBit(bit bool) error {
	if c.budgetBits >= 0 && c.out.Len() >= c.budgetBits {
		return errBitBudgetMet
	}
	c.out.PushBack(bit)
	return nil
}

func (c *coder) readBit() (bool, error) {
	if c.budgetBits >= 0 && c.pos >= c.budgetBits {
		return false, errBitBudgetMet
	}
	if c.pos >= len(c.in) {
		return false, ErrTruncatedStream
	}
	b := c.in[c.pos]
	c.pos++
	return b, nil
}

// setSignificant reports whether any coefficient within s meets or
// exceeds threshold. Every coefficient reachable from a set still
// living in the LIS is, by invariant, currently unreconstructed
// (recon == 0), so comparing coeffs directly against threshold is
// equivalent to comparing the residual.
func (c *coder) setSignificant(s Set3D, threshold float64) bool {
	for z := s.Z; z < s.Z+s.Lz; z++ {
		for y := s.Y; y < s.Y+s.Ly; y++ {
			for x := s.X; x < s.X+s.Lx; x++ {
				if c.coeffs[c.idx(x, y, z)] >= threshold {
					return true
				}
			}
		}
	}
	return false
}

// initializeSets builds the initial "big" low-pass set and the List of
// Insignificant Sets it seeds, following exactly the octant splits the
// wavelet transform applied: full XYZ splits while all three axes still
// have decomposition levels, then whichever of X/Y or Z has leftover
// levels, with the final low-pass residual placed at the front of its
// LIS level as the coefficient most likely to be significant.
func initializeSets(nx, ny, nz int, li LevelInfo) (Set3D, [][]Set3D) {
	big := Set3D{X: 0, Y: 0, Z: 0, Lx: nx, Ly: ny, Lz: nz}
	var lis [][]Set3D

	combined := li.Combined()
	for lvl := 0; lvl < combined; lvl++ {
		subsets := partition(big, true, true, true)
		big = subsets[0]
		rest := subsets[1:]
		lis = ensureLevel(lis, big.PartLevel)
		lis[big.PartLevel] = append(lis[big.PartLevel], rest...)
	}

	switch {
	case li.XYForms > combined:
		for lvl := combined; lvl < li.XYForms; lvl++ {
			subsets := partition(big, true, true, false)
			big = subsets[0]
			lis = ensureLevel(lis, big.PartLevel)
			lis[big.PartLevel] = append(lis[big.PartLevel], subsets[1:]...)
		}
	case li.ZForms > combined:
		for lvl := combined; lvl < li.ZForms; lvl++ {
			subsets := partition(big, false, false, true)
			big = subsets[0]
			lis = ensureLevel(lis, big.PartLevel)
			lis[big.PartLevel] = append(lis[big.PartLevel], subsets[1:]...)
		}
	}

	lis = ensureLevel(lis, big.PartLevel)
	lis[big.PartLevel] = append([]Set3D{big}, lis[big.PartLevel]...)
	return big, lis
}

// maxCoeffBits returns floor(log2(maxCoeff)), the bitplane the sorting
// pass starts at.
func maxCoeffBits(maxCoeff float64) int {
	return int(math.Floor(math.Log2(maxCoeff)))
}

// Encode compresses coeffs (non-negative magnitudes) with signs into a
// progressive bit sequence. li describes the wavelet decomposition
// levels the coefficients came from, used to seed the initial sets in
// the same subband layout the transform produced.
func Encode(coeffs []float64, signs []bool, nx, ny, nz int, li LevelInfo, cfg Config) ([]bool, int, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, 0, ErrInvalidDims
	}
	n := nx * ny * nz

	maxCoeff := 0.0
	for _, v := range coeffs {
		if v > maxCoeff {
			maxCoeff = v
		}
	}
	if maxCoeff <= 0 {
		return nil, 0, nil
	}
	maxBits := maxCoeffBits(maxCoeff)

	if cfg.Mode == FixedQuantization && cfg.QZTermLevel > maxBits {
		return nil, 0, ErrQZTermTooDeep
	}

	budgetBits := -1
	if cfg.Mode == FixedRate {
		b := cfg.BitBudget
		if b == 0 {
			b = uint64(n) * 64
		}
		if b%8 != 0 {
			b = ((b / 8) + 1) * 8
		}
		if b > uint64(n)*64 {
			return nil, 0, ErrBudgetTooLarge
		}
		budgetBits = int(b)
	}

	_, lis := initializeSets(nx, ny, nz, li)

	c := &coder{
		nx: nx, ny: ny, nz: nz,
		coeffs:     coeffs,
		recon:      make([]float64, n),
		signs:      signs,
		lis:        lis,
		out:        bio.NewBitBuffer(n),
		budgetBits: budgetBits,
	}

	bitplane := maxBits
	for iter := 0; iter < maxIterations; iter++ {
		if cfg.Mode == FixedQuantization && bitplane < cfg.QZTermLevel {
			break
		}
		threshold := math.Pow(2, float64(bitplane))

		if err := c.sortingPassEncode(threshold); err != nil {
			if err == errBitBudgetMet {
				break
			}
			return nil, 0, err
		}
		if err := c.refinementPassEncode(threshold); err != nil {
			if err == errBitBudgetMet {
				break
			}
			return nil, 0, err
		}

		c.lspOld = append(c.lspOld, c.lspNew...)
		c.lspNew = c.lspNew[:0]
		bitplane--
	}

	if cfg.Mode == FixedQuantization {
		c.out.PadToByte()
	}

	return c.out.Bits(), maxBits, nil
}

// Decode reverses Encode. maxBits and li must match the values Encode
// produced/consumed for this volume.
func Decode(bits []bool, nx, ny, nz int, li LevelInfo, maxBits int, cfg Config) ([]float64, []bool, error) {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, nil, ErrInvalidDims
	}
	n := nx * ny * nz

	recon := make([]float64, n)
	signs := make([]bool, n)
	for i := range signs {
		signs[i] = true
	}

	if len(bits) == 0 {
		return recon, signs, nil
	}

	budgetBits := -1
	if cfg.Mode == FixedRate {
		b := cfg.BitBudget
		if b == 0 || b > uint64(len(bits)) {
			b = uint64(len(bits))
		}
		budgetBits = int(b)
	}

	_, lis := initializeSets(nx, ny, nz, li)

	c := &coder{
		nx: nx, ny: ny, nz: nz,
		recon:      recon,
		signs:      signs,
		lis:        lis,
		in:         bits,
		budgetBits: budgetBits,
	}

	bitplane := maxBits
	budgetMet := false
	for iter := 0; iter < maxIterations && !budgetMet; iter++ {
		if cfg.Mode == FixedQuantization && bitplane < cfg.QZTermLevel {
			break
		}
		threshold := math.Pow(2, float64(bitplane))

		if err := c.sortingPassDecode(threshold); err != nil {
			if err == errBitBudgetMet {
				budgetMet = true
				break
			}
			return nil, nil, err
		}
		if err := c.refinementPassDecode(threshold); err != nil {
			if err == errBitBudgetMet {
				budgetMet = true
				break
			}
			return nil, nil, err
		}

		c.lspOld = append(c.lspOld, c.lspNew...)
		c.lspNew = c.lspNew[:0]
		bitplane--
	}

	// Newly-significant pixels already carry their midpoint estimate,
	// set directly in sortingPassDecode/processSetDecode, whether or
	// not the budget ran out before their first refinement bit.

	for i := range recon {
		if !signs[i] {
			recon[i] = -recon[i]
		}
	}

	return recon, signs, nil
}
