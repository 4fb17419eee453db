// Package chunk drives independent SPECK encoding and decoding across
// the sub-blocks a large volume is split into, so encoding can run in
// parallel and a reader can fetch a single chunk without touching the
// rest of the file.
package chunk

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/speck3d/speck3d/internal/bio"
	"github.com/speck3d/speck3d/internal/dwt"
	"github.com/speck3d/speck3d/internal/frame"
	"github.com/speck3d/speck3d/internal/precondition"
	"github.com/speck3d/speck3d/internal/speck"
)

// DefaultChunkDim is the edge length of a chunk along each axis when the
// caller doesn't specify one. 64^3 keeps a chunk's coefficient count
// (and therefore its LIS/LIP bookkeeping) comfortably cache-resident.
const DefaultChunkDim = 64

// Dims is a 3-D extent, used both for a whole volume and for the chunk
// size it's split into.
type Dims struct{ X, Y, Z int }

// Options controls how EncodeVolume splits and encodes a volume.
type Options struct {
	// ChunkDims is the size of each chunk. Zero fields default to
	// DefaultChunkDim. Edge chunks are simply smaller, never padded.
	ChunkDims Dims
	// Coding is passed through to speck.Encode for every chunk.
	Coding speck.Config
	// Zstd wraps each chunk's frame payload in a Zstandard stream.
	Zstd bool
	// DivRMS additionally divides each chunk by its RMS magnitude after
	// mean-subtraction and before the wavelet transform, storing the
	// divisor in the chunk's header so decodeChunk can multiply it back
	// in. Chunks whose RMS is zero (constant chunks) are left unscaled.
	DivRMS bool
}

func (o Options) chunkDims() Dims {
	d := o.ChunkDims
	if d.X <= 0 {
		d.X = DefaultChunkDim
	}
	if d.Y <= 0 {
		d.Y = DefaultChunkDim
	}
	if d.Z <= 0 {
		d.Z = DefaultChunkDim
	}
	return d
}

// chunkBounds describes one chunk's placement within the full volume.
type chunkBounds struct {
	ox, oy, oz int // origin within the full volume
	nx, ny, nz int // this chunk's own extent
}

func planChunks(full Dims, size Dims) []chunkBounds {
	var bounds []chunkBounds
	for oz := 0; oz < full.Z; oz += size.Z {
		nz := minInt(size.Z, full.Z-oz)
		for oy := 0; oy < full.Y; oy += size.Y {
			ny := minInt(size.Y, full.Y-oy)
			for ox := 0; ox < full.X; ox += size.X {
				nx := minInt(size.X, full.X-ox)
				bounds = append(bounds, chunkBounds{ox, oy, oz, nx, ny, nz})
			}
		}
	}
	return bounds
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// extract copies the sub-volume described by b out of a full-volume,
// row-major (x fastest) buffer.
func extract(data []float64, full Dims, b chunkBounds) []float64 {
	out := make([]float64, b.nx*b.ny*b.nz)
	for z := 0; z < b.nz; z++ {
		for y := 0; y < b.ny; y++ {
			srcBase := (b.oz+z)*full.X*full.Y + (b.oy+y)*full.X + b.ox
			dstBase := z*b.nx*b.ny + y*b.nx
			copy(out[dstBase:dstBase+b.nx], data[srcBase:srcBase+b.nx])
		}
	}
	return out
}

// scatter copies a reconstructed chunk back into its place in a
// full-volume buffer.
func scatter(data []float64, full Dims, b chunkBounds, chunkData []float64) {
	for z := 0; z < b.nz; z++ {
		for y := 0; y < b.ny; y++ {
			dstBase := (b.oz+z)*full.X*full.Y + (b.oy+y)*full.X + b.ox
			srcBase := z*b.nx*b.ny + y*b.nx
			copy(data[dstBase:dstBase+b.nx], chunkData[srcBase:srcBase+b.nx])
		}
	}
}

// EncodeVolume splits data (a full.X*full.Y*full.Z row-major volume)
// into chunks, encodes each independently and in parallel, and returns
// a single container: the volume's dimensions, a chunk count, an
// (offset, size) table, then the concatenated per-chunk frames.
func EncodeVolume(data []float64, full Dims, opts Options) ([]byte, error) {
	if full.X <= 0 || full.Y <= 0 || full.Z <= 0 {
		return nil, speck.ErrInvalidDims
	}
	bounds := planChunks(full, opts.chunkDims())
	blobs := make([][]byte, len(bounds))

	err := ParallelForWithError(len(bounds), func(i int) error {
		blob, err := encodeChunk(extract(data, full, bounds[i]), bounds[i], opts)
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		blobs[i] = blob
		return nil
	})
	if err != nil {
		return nil, err
	}

	return assembleContainer(full, blobs), nil
}

func encodeChunk(coeffs []float64, b chunkBounds, opts Options) ([]byte, error) {
	mean := precondition.SubtractMean(coeffs)

	var rms float64
	if opts.DivRMS {
		rms = precondition.DivideByRMS(coeffs)
	}

	li := dwt.ForwardVolume(coeffs, b.nx, b.ny, b.nz)

	signs := make([]bool, len(coeffs))
	precondition.SignMagnitude(coeffs, signs)

	bits, maxBits, err := speck.Encode(coeffs, signs, b.nx, b.ny, b.nz, speck.LevelInfo(li), opts.Coding)
	if err != nil {
		return nil, err
	}

	packed := bio.NewBitBuffer(len(bits))
	for _, bit := range bits {
		packed.PushBack(bit)
	}
	packed.PadToByte()
	payload, err := bio.Pack(packed.Bits())
	if err != nil {
		return nil, err
	}

	h := frame.Header{
		DimX: uint32(b.nx), DimY: uint32(b.ny), DimZ: uint32(b.nz),
		Mean:         mean,
		MaxCoeffBits: int32(maxBits),
	}
	if rms > 0 {
		h.DivRMS = true
		h.RMS = rms
	}
	switch opts.Coding.Mode {
	case speck.FixedRate:
		h.Mode = frame.TerminationFixedRate
		h.BitBudget = uint32(len(bits))
	case speck.FixedQuantization:
		h.Mode = frame.TerminationFixedQuantization
		h.QZTermLevel = int32(opts.Coding.QZTermLevel)
	}

	var buf bytes.Buffer
	if err := frame.Write(&buf, h, payload, opts.Zstd); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeVolume reverses EncodeVolume, reconstructing the full volume.
// The volume's dimensions are read from the container itself; a caller
// that already knows them can get them more cheaply with ReadDims and
// needn't call this just to check.
func DecodeVolume(container []byte, opts Options) ([]float64, error) {
	full, err := ReadDims(container)
	if err != nil {
		return nil, err
	}
	if full.X <= 0 || full.Y <= 0 || full.Z <= 0 {
		return nil, speck.ErrInvalidDims
	}
	bounds := planChunks(full, opts.chunkDims())
	blobs, err := disassembleContainer(container, len(bounds))
	if err != nil {
		return nil, err
	}

	out := make([]float64, full.X*full.Y*full.Z)
	err = ParallelForWithError(len(bounds), func(i int) error {
		chunkData, err := decodeChunk(blobs[i], bounds[i])
		if err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		scatter(out, full, bounds[i], chunkData)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeChunk(blob []byte, b chunkBounds) ([]float64, error) {
	h, payload, err := frame.Read(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}

	bits, err := bio.UnpackFrom(payload, 0)
	if err != nil {
		return nil, err
	}

	cfg := speck.Config{}
	switch h.Mode {
	case frame.TerminationFixedRate:
		cfg.Mode = speck.FixedRate
		cfg.BitBudget = uint64(h.BitBudget)
	case frame.TerminationFixedQuantization:
		cfg.Mode = speck.FixedQuantization
		cfg.QZTermLevel = int(h.QZTermLevel)
	}

	// The decomposition structure is re-derived from the chunk's own
	// dimensions, exactly as encodeChunk computed it, rather than
	// carried in the frame header.
	liRaw := dwt.ComputeLevelInfo(int(h.DimX), int(h.DimY), int(h.DimZ))
	li := speck.LevelInfo{XYForms: liRaw.XYForms, ZForms: liRaw.ZForms}

	recon, _, err := speck.Decode(bits, int(h.DimX), int(h.DimY), int(h.DimZ), li, int(h.MaxCoeffBits), cfg)
	if err != nil {
		return nil, err
	}

	dwt.InverseVolume(recon, int(h.DimX), int(h.DimY), int(h.DimZ), liRaw)
	if h.DivRMS {
		precondition.MultiplyByRMS(recon, h.RMS)
	}
	precondition.AddMean(recon, h.Mean)

	return recon, nil
}

// containerPreambleLen is the size of the fixed prefix every container
// carries before its chunk table: the full volume's dimensions and its
// chunk count, both readable without touching a single chunk blob.
const containerPreambleLen = 16

// assembleContainer writes the volume's dimensions, a chunk count, an
// (offset,size) table, then the concatenated chunk blobs.
func assembleContainer(full Dims, blobs [][]byte) []byte {
	headerLen := containerPreambleLen + len(blobs)*16
	total := headerLen
	for _, b := range blobs {
		total += len(b)
	}

	out := make([]byte, total)
	binary.LittleEndian.PutUint32(out[0:4], uint32(full.X))
	binary.LittleEndian.PutUint32(out[4:8], uint32(full.Y))
	binary.LittleEndian.PutUint32(out[8:12], uint32(full.Z))
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(blobs)))

	offset := uint64(headerLen)
	tablePos := containerPreambleLen
	for _, b := range blobs {
		binary.LittleEndian.PutUint64(out[tablePos:tablePos+8], offset)
		binary.LittleEndian.PutUint64(out[tablePos+8:tablePos+16], uint64(len(b)))
		tablePos += 16
		copy(out[offset:offset+uint64(len(b))], b)
		offset += uint64(len(b))
	}
	return out
}

// ReadDims reads a container's volume dimensions without touching its
// chunk table or any chunk payload.
func ReadDims(container []byte) (Dims, error) {
	if len(container) < containerPreambleLen {
		return Dims{}, fmt.Errorf("chunk: container too short")
	}
	return Dims{
		X: int(binary.LittleEndian.Uint32(container[0:4])),
		Y: int(binary.LittleEndian.Uint32(container[4:8])),
		Z: int(binary.LittleEndian.Uint32(container[8:12])),
	}, nil
}

func disassembleContainer(container []byte, wantChunks int) ([][]byte, error) {
	if len(container) < containerPreambleLen {
		return nil, fmt.Errorf("chunk: container too short")
	}
	n := int(binary.LittleEndian.Uint32(container[12:16]))
	if n != wantChunks {
		return nil, fmt.Errorf("chunk: container has %d chunks, expected %d", n, wantChunks)
	}
	headerLen := containerPreambleLen + n*16
	if len(container) < headerLen {
		return nil, fmt.Errorf("chunk: truncated chunk table")
	}

	blobs := make([][]byte, n)
	tablePos := containerPreambleLen
	for i := 0; i < n; i++ {
		offset := binary.LittleEndian.Uint64(container[tablePos : tablePos+8])
		size := binary.LittleEndian.Uint64(container[tablePos+8 : tablePos+16])
		tablePos += 16
		if offset+size > uint64(len(container)) {
			return nil, fmt.Errorf("chunk: chunk %d out of bounds", i)
		}
		blobs[i] = container[offset : offset+size]
	}
	return blobs, nil
}
