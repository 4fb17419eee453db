// speckd decompresses a speck3d container back into a raw scientific
// volume.
//
// Usage:
//
//	speckd [--f64] <input> <output>
//
// Options:
//
//	--f64       Write output samples as float64 instead of the default
//	            float32.
//	-h, --help  Show this help message.
//
// A chunk encoded with speckc's --div-rms is automatically rescaled back
// to its original magnitude; the divisor travels in the chunk header, so
// speckd needs no matching flag.
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

	"github.com/speck3d/speck3d"
)

func main() {
	f64 := false
	var positional []string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "--f64":
			f64 = true
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) != 2 {
		fmt.Fprintln(os.Stderr, "speckd: exactly two positional arguments (input, output) are required")
		printUsage()
		os.Exit(2)
	}

	blob, err := os.ReadFile(positional[0])
	fatalIf(err)

	data, err := speck3d.Decode(blob, nil)
	fatalIf(err)

	var out []byte
	if f64 {
		out = encodeFloat64LE(data)
	} else {
		out = encodeFloat32LE(data)
	}
	fatalIf(os.WriteFile(positional[1], out, 0o644))
}

func encodeFloat32LE(data []float64) []byte {
	out := make([]byte, len(data)*4)
	for i, v := range data {
		bits := math.Float32bits(float32(v))
		out[4*i] = byte(bits)
		out[4*i+1] = byte(bits >> 8)
		out[4*i+2] = byte(bits >> 16)
		out[4*i+3] = byte(bits >> 24)
	}
	return out
}

func encodeFloat64LE(data []float64) []byte {
	out := make([]byte, len(data)*8)
	for i, v := range data {
		bits := math.Float64bits(v)
		for b := 0; b < 8; b++ {
			out[8*i+b] = byte(bits >> (8 * b))
		}
	}
	return out
}

func fatalIf(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "speckd: %v\n", err)
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: speckd [--f64] <input> <output>")
}
