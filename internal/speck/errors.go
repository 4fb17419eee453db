package speck

import "errors"

var (
	// ErrInvalidDims is returned when a volume's dimensions are non-positive.
	ErrInvalidDims = errors.New("speck: invalid dimensions")

	// ErrBudgetTooLarge is returned when a fixed-rate bit budget exceeds
	// what the coefficient count could ever need (64 bits per coefficient).
	ErrBudgetTooLarge = errors.New("speck: bit budget exceeds coefficient capacity")

	// ErrQZTermTooDeep is returned when the requested quantization
	// termination bitplane is above the maximum coefficient's top
	// bitplane, i.e. the stream would stop before coding a single
	// bitplane.
	ErrQZTermTooDeep = errors.New("speck: quantization termination level exceeds max coefficient bitplane")

	// ErrTruncatedStream is returned by Decode when the bit source runs
	// out before the stream's own termination condition is reached.
	ErrTruncatedStream = errors.New("speck: bitstream truncated")
)

// errBitBudgetMet is an internal control-flow signal used to unwind the
// sorting/refinement loop once the fixed-rate bit budget has been spent.
// It never escapes to a caller.
var errBitBudgetMet = errors.New("speck: bit budget met")
