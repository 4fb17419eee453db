// Package speck3d compresses 3-D scalar volumes of float64 samples into
// a self-describing, truncatable bitstream using a CDF 9/7 wavelet
// transform followed by SPECK (Set Partitioned Embedded bloCK)
// progressive bitplane coding.
//
// Basic usage for encoding a whole volume:
//
//	blob, err := speck3d.Encode(data, speck3d.Dims{X: nx, Y: ny, Z: nz}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Basic usage for decoding:
//
//	data, err := speck3d.Decode(blob, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
package speck3d

import (
	"fmt"

	"github.com/speck3d/speck3d/chunk"
	"github.com/speck3d/speck3d/internal/speck"
)

// Dims is a volume's extent along X, Y, and Z. X is the fastest-varying
// axis in the flattened sample layout.
type Dims = chunk.Dims

// Mode selects how the encoder decides when to stop spending bits on a
// chunk.
type Mode int

const (
	// FixedRate stops once a target bit budget per chunk is spent,
	// giving predictable output size at variable quality.
	FixedRate Mode = iota
	// FixedQuantization stops once a target bitplane is reached,
	// giving predictable quality at variable output size.
	FixedQuantization
)

// Options controls how Encode splits and compresses a volume.
type Options struct {
	// ChunkDims is the size of each independently coded chunk. Zero
	// fields default to chunk.DefaultChunkDim (64).
	ChunkDims Dims

	// Mode selects the termination rule applied to every chunk.
	Mode Mode

	// BitsPerVoxel sets the FixedRate bit budget as an average number
	// of bits per voxel within a chunk; it's converted to an absolute
	// per-chunk bit budget at encode time since chunks vary in size at
	// a volume's edges. Used when Mode is FixedRate. Zero means the
	// coder's largest budget, 64 bits per voxel (near-lossless).
	BitsPerVoxel float64

	// QZTermLevel is the bitplane (inclusive) at which refinement
	// stops. Used when Mode is FixedQuantization.
	QZTermLevel int

	// Zstd wraps each chunk's packed payload in a Zstandard stream.
	Zstd bool

	// DivRMS additionally divides each chunk by its own RMS magnitude
	// after mean-subtraction and before the wavelet transform. The
	// divisor is stored in the chunk's header, and Decode reverses it
	// automatically; this option is only consulted on encode.
	DivRMS bool
}

// DefaultOptions returns the default encoding options: FixedRate coding
// at the largest budget (near-lossless) with no Zstd wrapping, using the
// default chunk size.
func DefaultOptions() *Options {
	return &Options{
		ChunkDims: Dims{X: chunk.DefaultChunkDim, Y: chunk.DefaultChunkDim, Z: chunk.DefaultChunkDim},
		Mode:      FixedRate,
	}
}

func (o *Options) toChunkOptions(full Dims) chunk.Options {
	coding := speck.Config{QZTermLevel: o.QZTermLevel}
	switch o.Mode {
	case FixedQuantization:
		coding.Mode = speck.FixedQuantization
	default:
		coding.Mode = speck.FixedRate
		if o.BitsPerVoxel > 0 {
			voxels := uint64(full.X) * uint64(full.Y) * uint64(full.Z)
			coding.BitBudget = uint64(o.BitsPerVoxel * float64(voxels))
		}
	}
	return chunk.Options{
		ChunkDims: o.ChunkDims,
		Coding:    coding,
		Zstd:      o.Zstd,
		DivRMS:    o.DivRMS,
	}
}

// Encode compresses data, a row-major (X fastest) dims.X*dims.Y*dims.Z
// volume of float64 samples, into a container byte slice. A nil opts
// uses DefaultOptions.
func Encode(data []float64, dims Dims, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if dims.X <= 0 || dims.Y <= 0 || dims.Z <= 0 {
		return nil, fmt.Errorf("speck3d: %w", ErrInvalidDims)
	}
	if len(data) != dims.X*dims.Y*dims.Z {
		return nil, fmt.Errorf("speck3d: %w: got %d samples, want %d", ErrWrongSize, len(data), dims.X*dims.Y*dims.Z)
	}

	blob, err := chunk.EncodeVolume(data, dims, opts.toChunkOptions(dims))
	if err != nil {
		return nil, fmt.Errorf("speck3d: encode: %w", err)
	}
	return blob, nil
}

// Decode reconstructs the volume packed by Encode. The returned slice is
// row-major (X fastest), sized metadata.Dims.X*Y*Z; its dimensions can
// be read ahead of a full decode with DecodeMetadata. A nil opts uses
// DefaultOptions; Mode/BitsPerVoxel/QZTermLevel/DivRMS are ignored on
// decode (the frame header carries each chunk's own termination and
// conditioning parameters), but ChunkDims must match what Encode used.
func Decode(blob []byte, opts *Options) ([]float64, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	data, err := chunk.DecodeVolume(blob, opts.toChunkOptions(Dims{}))
	if err != nil {
		return nil, fmt.Errorf("speck3d: decode: %w", err)
	}
	return data, nil
}

// Metadata describes a compressed volume's shape without requiring a
// full decode.
type Metadata struct {
	// Dims is the full volume's dimensions.
	Dims Dims
}

// DecodeMetadata reads a container's volume dimensions without
// decoding any chunk payload.
func DecodeMetadata(blob []byte) (*Metadata, error) {
	dims, err := chunk.ReadDims(blob)
	if err != nil {
		return nil, fmt.Errorf("speck3d: %w", err)
	}
	return &Metadata{Dims: dims}, nil
}
