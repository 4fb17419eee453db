// speckc compresses a raw scientific volume into a speck3d container.
//
// Usage:
//
//	speckc --dims X Y Z [--chunks X Y Z] (--bpp F | --qz L) [--zstd] [--div-rms] [--omp N] <input> <output>
//
// Options:
//
//	--dims X Y Z    Volume dimensions (required). Input is a raw
//	                float32 array of length X*Y*Z in X-fastest order.
//	--chunks X Y Z  Chunk dimensions (default 64 64 64).
//	--bpp F         Target bits per voxel (FixedRate termination).
//	--qz L          Target quantization bitplane (FixedQuantization
//	                termination). Mutually exclusive with --bpp.
//	--zstd          Wrap each chunk's payload in a Zstandard stream.
//	--div-rms       Divide each chunk by its own RMS magnitude before
//	                the wavelet transform; the divisor is stored in the
//	                chunk header and speckd reverses it automatically.
//	--omp N         Number of worker goroutines (0: GOMAXPROCS).
//	-h, --help      Show this help message.
//
// Exit codes:
//
//	0: success
//	2: usage or I/O error
package main

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/speck3d/speck3d"
	"github.com/speck3d/speck3d/chunk"
)

func main() {
	var dims, chunks [3]int
	haveDims, haveChunks := false, false
	bpp := -1.0
	qz := 0
	haveQZ := false
	zstd := false
	divRMS := false
	omp := 0
	var positional []string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "--dims":
			var err error
			dims, i, err = takeTriple(args, i)
			fatalIf(err)
			haveDims = true
		case "--chunks":
			var err error
			chunks, i, err = takeTriple(args, i)
			fatalIf(err)
			haveChunks = true
		case "--bpp":
			i++
			fatalIfOOB(args, i)
			v, err := strconv.ParseFloat(args[i], 64)
			fatalIf(err)
			bpp = v
		case "--qz":
			i++
			fatalIfOOB(args, i)
			v, err := strconv.Atoi(args[i])
			fatalIf(err)
			qz = v
			haveQZ = true
		case "--zstd":
			zstd = true
		case "--div-rms":
			divRMS = true
		case "--omp":
			i++
			fatalIfOOB(args, i)
			v, err := strconv.Atoi(args[i])
			fatalIf(err)
			omp = v
		default:
			positional = append(positional, args[i])
		}
	}

	if !haveDims || len(positional) != 2 {
		fmt.Fprintln(os.Stderr, "speckc: --dims and exactly two positional arguments (input, output) are required")
		printUsage()
		os.Exit(2)
	}
	if bpp >= 0 && haveQZ {
		fmt.Fprintln(os.Stderr, "speckc: --bpp and --qz are mutually exclusive")
		os.Exit(2)
	}

	raw, err := os.ReadFile(positional[0])
	fatalIf(err)

	n := dims[0] * dims[1] * dims[2]
	data, err := decodeFloat32LE(raw, n)
	fatalIf(err)

	if omp != 0 {
		chunk.SetParallelConfig(chunk.ParallelConfig{NumWorkers: omp, GrainSize: 1})
	}

	opts := speck3d.DefaultOptions()
	if haveChunks {
		opts.ChunkDims = speck3d.Dims{X: chunks[0], Y: chunks[1], Z: chunks[2]}
	}
	opts.Zstd = zstd
	opts.DivRMS = divRMS
	switch {
	case haveQZ:
		opts.Mode = speck3d.FixedQuantization
		opts.QZTermLevel = qz
	case bpp >= 0:
		opts.Mode = speck3d.FixedRate
		opts.BitsPerVoxel = bpp
	}

	blob, err := speck3d.Encode(data, speck3d.Dims{X: dims[0], Y: dims[1], Z: dims[2]}, opts)
	fatalIf(err)

	fatalIf(os.WriteFile(positional[1], blob, 0o644))
}

func takeTriple(args []string, i int) ([3]int, int, error) {
	var out [3]int
	for k := 0; k < 3; k++ {
		i++
		if i >= len(args) {
			return out, i, fmt.Errorf("expected 3 integers")
		}
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return out, i, err
		}
		out[k] = v
	}
	return out, i, nil
}

func decodeFloat32LE(raw []byte, n int) ([]float64, error) {
	if len(raw) != n*4 {
		return nil, fmt.Errorf("speckc: input has %d bytes, want %d for %d float32 samples", len(raw), n*4, n)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		bits := uint32(raw[4*i]) | uint32(raw[4*i+1])<<8 | uint32(raw[4*i+2])<<16 | uint32(raw[4*i+3])<<24
		out[i] = float64(math.Float32frombits(bits))
	}
	return out, nil
}

func fatalIf(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "speckc: %v\n", err)
		os.Exit(2)
	}
}

func fatalIfOOB(args []string, i int) {
	if i >= len(args) {
		fmt.Fprintln(os.Stderr, "speckc: missing argument value")
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: speckc --dims X Y Z [--chunks X Y Z] (--bpp F | --qz L) [--zstd] [--div-rms] [--omp N] <input> <output>")
}
