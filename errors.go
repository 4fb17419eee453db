package speck3d

import "errors"

// Sentinel errors for this package. Encode returns ErrInvalidDims and
// ErrWrongSize (wrapped); Decode and DecodeMetadata return errors from
// the chunk and frame layers instead. Callers compare with errors.Is.
var (
	// ErrInvalidDims is returned when a volume's dimensions aren't all
	// positive.
	ErrInvalidDims = errors.New("speck3d: invalid dimensions")
	// ErrWrongSize is returned when a data slice's length doesn't match
	// its stated dimensions.
	ErrWrongSize = errors.New("speck3d: data length does not match dimensions")
	// ErrIO denotes a failure reading or writing a container's bytes.
	// No function in this package returns it.
	ErrIO = errors.New("speck3d: I/O error")
)
