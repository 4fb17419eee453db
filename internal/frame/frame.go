// Package frame implements the on-disk container format wrapping a
// SPECK bitstream: a 32-byte little-endian header describing the
// volume's shape and coding parameters (extended by 8 bytes when the
// chunk was RMS-conditioned), followed by the payload, optionally
// wrapped in a Zstandard frame.
package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

// HeaderSize is the fixed size, in bytes, of a frame header with no
// conditioning extension. Headers that carry a stored RMS value run
// rmsFieldSize bytes longer; see conditioningDivRMSFlag.
const HeaderSize = 32

// rmsFieldSize is the width, in bytes, of the RMS extension appended
// after the base header when conditioningDivRMSFlag is set.
const rmsFieldSize = 8

// CurrentVersion is the header format version this package writes.
const CurrentVersion byte = 1

// zstdVersionFlag is OR'd into the version byte when the payload
// following the header is Zstandard-compressed, so a reader can tell
// from one byte whether to route the rest of the stream through a
// decompressor.
const zstdVersionFlag byte = 0x80

// conditioningDivRMSFlag is set in the header's conditioning-flags byte
// when the encoder divided the chunk by its RMS magnitude before the
// wavelet transform; the RMS extension then follows the base header.
const conditioningDivRMSFlag byte = 0x01

// TerminationMode records which of the coder's two stopping conditions
// produced this stream, so a decoder knows how to interpret the
// termination field.
type TerminationMode byte

const (
	TerminationFixedRate TerminationMode = iota
	TerminationFixedQuantization
)

// ErrBadMagic is returned when a stream's version byte (after masking
// off the zstd flag) doesn't match a version this package understands.
var ErrBadMagic = errors.New("frame: unrecognized header version")

// ErrTruncatedHeader is returned when fewer than HeaderSize bytes are
// available to read a header from.
var ErrTruncatedHeader = errors.New("frame: truncated header")

// Header describes one encoded chunk: its shape, the mean subtracted
// before wavelet transform, the coder's starting bitplane, and which
// termination mode was used with what parameter. BitBudget and
// QZTermLevel share a single 4-byte slot on the wire, chosen by Mode;
// only the one Mode selects is ever meaningful.
type Header struct {
	Zstd             bool
	DimX, DimY, DimZ uint32
	Mean             float64
	MaxCoeffBits     int32
	Mode             TerminationMode
	BitBudget        uint32
	QZTermLevel      int32
	// DivRMS records whether the encoder divided the chunk by its RMS
	// magnitude before the wavelet transform. RMS holds the divisor,
	// meaningful only when DivRMS is true.
	DivRMS bool
	RMS    float64
}

// Marshal encodes h into a buffer HeaderSize bytes long, or
// HeaderSize+rmsFieldSize when h.DivRMS is set.
func (h Header) Marshal() []byte {
	size := HeaderSize
	if h.DivRMS {
		size += rmsFieldSize
	}
	buf := make([]byte, size)

	version := CurrentVersion
	if h.Zstd {
		version |= zstdVersionFlag
	}
	buf[0] = version
	buf[1] = byte(h.Mode)

	binary.LittleEndian.PutUint32(buf[2:6], h.DimX)
	binary.LittleEndian.PutUint32(buf[6:10], h.DimY)
	binary.LittleEndian.PutUint32(buf[10:14], h.DimZ)
	binary.LittleEndian.PutUint64(buf[14:22], math.Float64bits(h.Mean))
	binary.LittleEndian.PutUint32(buf[22:26], uint32(h.MaxCoeffBits))

	if h.Mode == TerminationFixedQuantization {
		binary.LittleEndian.PutUint32(buf[26:30], uint32(h.QZTermLevel))
	} else {
		binary.LittleEndian.PutUint32(buf[26:30], h.BitBudget)
	}

	var flags byte
	if h.DivRMS {
		flags |= conditioningDivRMSFlag
		binary.LittleEndian.PutUint64(buf[HeaderSize:HeaderSize+rmsFieldSize], math.Float64bits(h.RMS))
	}
	buf[30] = flags
	// buf[31] reserved.

	return buf
}

// UnmarshalHeader decodes a header, reading rmsFieldSize bytes beyond
// HeaderSize when the conditioning-flags byte says an RMS value follows.
func UnmarshalHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, ErrTruncatedHeader
	}

	version := data[0]
	zstdSet := version&zstdVersionFlag != 0
	version &^= zstdVersionFlag
	if version != CurrentVersion {
		return Header{}, fmt.Errorf("%w: got %d", ErrBadMagic, version)
	}

	h := Header{
		Zstd: zstdSet,
		Mode: TerminationMode(data[1]),
	}
	h.DimX = binary.LittleEndian.Uint32(data[2:6])
	h.DimY = binary.LittleEndian.Uint32(data[6:10])
	h.DimZ = binary.LittleEndian.Uint32(data[10:14])
	h.Mean = math.Float64frombits(binary.LittleEndian.Uint64(data[14:22]))
	h.MaxCoeffBits = int32(binary.LittleEndian.Uint32(data[22:26]))

	if h.Mode == TerminationFixedQuantization {
		h.QZTermLevel = int32(binary.LittleEndian.Uint32(data[26:30]))
	} else {
		h.BitBudget = binary.LittleEndian.Uint32(data[26:30])
	}

	h.DivRMS = data[30]&conditioningDivRMSFlag != 0
	if h.DivRMS {
		if len(data) < HeaderSize+rmsFieldSize {
			return Header{}, ErrTruncatedHeader
		}
		h.RMS = math.Float64frombits(binary.LittleEndian.Uint64(data[HeaderSize : HeaderSize+rmsFieldSize]))
	}

	return h, nil
}

// Write emits h followed by payload to w. If useZstd is true, payload
// is compressed through a Zstandard encoder before being written and
// the header's zstd flag is set to match.
func Write(w io.Writer, h Header, payload []byte, useZstd bool) error {
	h.Zstd = useZstd

	if _, err := w.Write(h.Marshal()); err != nil {
		return fmt.Errorf("frame: write header: %w", err)
	}

	if !useZstd {
		_, err := w.Write(payload)
		if err != nil {
			return fmt.Errorf("frame: write payload: %w", err)
		}
		return nil
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("frame: new zstd writer: %w", err)
	}
	if _, err := enc.Write(payload); err != nil {
		enc.Close()
		return fmt.Errorf("frame: zstd write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("frame: zstd close: %w", err)
	}
	return nil
}

// Read parses a header and its payload from r, transparently decoding
// a Zstandard-wrapped payload if the header's flag says so.
func Read(r io.Reader) (Header, []byte, error) {
	headerBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return Header{}, nil, fmt.Errorf("frame: read header: %w", err)
	}
	if headerBuf[30]&conditioningDivRMSFlag != 0 {
		ext := make([]byte, rmsFieldSize)
		if _, err := io.ReadFull(r, ext); err != nil {
			return Header{}, nil, fmt.Errorf("frame: read header: %w", err)
		}
		headerBuf = append(headerBuf, ext...)
	}
	h, err := UnmarshalHeader(headerBuf)
	if err != nil {
		return Header{}, nil, err
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return Header{}, nil, fmt.Errorf("frame: read payload: %w", err)
	}

	if !h.Zstd {
		return h, rest, nil
	}

	dec, err := zstd.NewReader(bytes.NewReader(rest))
	if err != nil {
		return Header{}, nil, fmt.Errorf("frame: new zstd reader: %w", err)
	}
	defer dec.Close()

	payload, err := io.ReadAll(dec)
	if err != nil {
		return Header{}, nil, fmt.Errorf("frame: zstd read: %w", err)
	}
	return h, payload, nil
}
