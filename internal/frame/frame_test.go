package frame

import (
	"bytes"
	"testing"
)

func TestHeaderMarshalUnmarshalRoundTrip(t *testing.T) {
	h := Header{
		DimX: 64, DimY: 64, DimZ: 41,
		Mean:         3.14159,
		MaxCoeffBits: 12,
		Mode:         TerminationFixedQuantization,
		QZTermLevel:  -4,
	}

	buf := h.Marshal()
	if len(buf) != HeaderSize {
		t.Fatalf("got %d bytes, want %d", len(buf), HeaderSize)
	}

	got, err := UnmarshalHeader(buf)
	if err != nil {
		t.Fatalf("UnmarshalHeader: %v", err)
	}
	if got != h {
		t.Errorf("got %+v, want %+v", got, h)
	}
}

func TestHeaderQZTermLevelSurvivesOutsideInt16Range(t *testing.T) {
	h := Header{
		DimX: 1, DimY: 1, DimZ: 1,
		Mode:        TerminationFixedQuantization,
		QZTermLevel: -100000,
	}

	got, err := UnmarshalHeader(h.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalHeader: %v", err)
	}
	if got.QZTermLevel != h.QZTermLevel {
		t.Errorf("QZTermLevel got %d, want %d (would have wrapped under int16 packing)", got.QZTermLevel, h.QZTermLevel)
	}
}

func TestHeaderDivRMSRoundTrip(t *testing.T) {
	h := Header{
		DimX: 16, DimY: 16, DimZ: 16,
		Mean:         1.5,
		MaxCoeffBits: 4,
		Mode:         TerminationFixedRate,
		BitBudget:    512,
		DivRMS:       true,
		RMS:          7.25,
	}

	buf := h.Marshal()
	if len(buf) != HeaderSize+rmsFieldSize {
		t.Fatalf("got %d bytes, want %d", len(buf), HeaderSize+rmsFieldSize)
	}

	got, err := UnmarshalHeader(buf)
	if err != nil {
		t.Fatalf("UnmarshalHeader: %v", err)
	}
	if got != h {
		t.Errorf("got %+v, want %+v", got, h)
	}
}

func TestUnmarshalHeaderTooShort(t *testing.T) {
	_, err := UnmarshalHeader(make([]byte, HeaderSize-1))
	if err != ErrTruncatedHeader {
		t.Errorf("got %v, want ErrTruncatedHeader", err)
	}
}

func TestUnmarshalHeaderBadVersion(t *testing.T) {
	buf := make([]byte, HeaderSize)
	buf[0] = 99
	_, err := UnmarshalHeader(buf)
	if err == nil {
		t.Fatal("expected error for unrecognized version")
	}
}

func TestWriteReadRoundTripUncompressed(t *testing.T) {
	h := Header{DimX: 4, DimY: 4, DimZ: 4, MaxCoeffBits: 5, Mode: TerminationFixedRate, BitBudget: 256}
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	var buf bytes.Buffer
	if err := Write(&buf, h, payload, false); err != nil {
		t.Fatalf("Write: %v", err)
	}

	gotHeader, gotPayload, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if gotHeader.DimX != h.DimX || gotHeader.Zstd {
		t.Errorf("header mismatch: %+v", gotHeader)
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Errorf("got %v, want %v", gotPayload, payload)
	}
}

func TestWriteReadRoundTripDivRMS(t *testing.T) {
	h := Header{DimX: 4, DimY: 4, DimZ: 4, MaxCoeffBits: 5, Mode: TerminationFixedRate, BitBudget: 256, DivRMS: true, RMS: 3.5}
	payload := []byte{9, 8, 7, 6}

	var buf bytes.Buffer
	if err := Write(&buf, h, payload, false); err != nil {
		t.Fatalf("Write: %v", err)
	}

	gotHeader, gotPayload, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !gotHeader.DivRMS || gotHeader.RMS != h.RMS {
		t.Errorf("RMS conditioning lost: %+v", gotHeader)
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Errorf("got %v, want %v", gotPayload, payload)
	}
}

func TestWriteReadRoundTripZstd(t *testing.T) {
	h := Header{DimX: 8, DimY: 8, DimZ: 8, MaxCoeffBits: 6, Mode: TerminationFixedRate, BitBudget: 1024}
	payload := bytes.Repeat([]byte{0xAB, 0xCD, 0xEF, 0x00}, 256)

	var buf bytes.Buffer
	if err := Write(&buf, h, payload, true); err != nil {
		t.Fatalf("Write: %v", err)
	}

	gotHeader, gotPayload, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !gotHeader.Zstd {
		t.Error("expected zstd flag set on round trip")
	}
	if !bytes.Equal(gotPayload, payload) {
		t.Errorf("payload mismatch after zstd round trip")
	}
}
