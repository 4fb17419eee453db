package bio

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	tests := [][]bool{
		{},
		{true, false, true, false, true, false, true, false},
		{false, false, false, false, false, false, false, false},
		{true, true, true, true, true, true, true, true},
	}

	for i, bits := range tests {
		packed, err := Pack(bits)
		if err != nil {
			t.Fatalf("test %d: Pack error: %v", i, err)
		}
		got := Unpack(packed)
		if !reflect.DeepEqual(got, bits) {
			t.Errorf("test %d: round-trip mismatch:\ngot  %v\nwant %v", i, got, bits)
		}
	}
}

func TestPackBitOrder(t *testing.T) {
	// Bit 0 of the logical sequence is the MSB of the first byte.
	bits := []bool{true, false, false, false, false, false, false, false}
	packed, err := Pack(bits)
	if err != nil {
		t.Fatal(err)
	}
	if packed[0] != 0x80 {
		t.Errorf("got 0x%02x, want 0x80", packed[0])
	}
}

func TestPackWrongSize(t *testing.T) {
	_, err := Pack([]bool{true, false, true})
	if err != ErrWrongSize {
		t.Errorf("got %v, want ErrWrongSize", err)
	}
}

func TestUnpackFromOffsetTooLarge(t *testing.T) {
	_, err := UnpackFrom([]byte{1, 2, 3}, 10)
	if err != ErrWrongSize {
		t.Errorf("got %v, want ErrWrongSize", err)
	}
}

func TestPackIntoWrongSize(t *testing.T) {
	dest := make([]byte, 4)
	if err := PackInto(dest, []bool{true, false, true}, 0); err != ErrWrongSize {
		t.Errorf("got %v, want ErrWrongSize", err)
	}
	if err := PackInto(dest, make([]bool, 8), 10); err != ErrWrongSize {
		t.Errorf("got %v, want ErrWrongSize", err)
	}
}

func TestPackUnpackRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(128) * 8
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = rng.Intn(2) == 1
		}
		packed, err := Pack(bits)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		got := Unpack(packed)
		if !reflect.DeepEqual(got, bits) {
			t.Fatalf("trial %d: round-trip mismatch", trial)
		}
	}
}

func FuzzUnpack(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0xff})
	f.Add([]byte{0x80, 0x01, 0x42})

	f.Fuzz(func(t *testing.T, data []byte) {
		bits := Unpack(data)
		if len(bits) != len(data)*8 {
			t.Fatalf("got %d bits, want %d", len(bits), len(data)*8)
		}
		repacked, err := Pack(bits)
		if err != nil {
			t.Fatalf("repack error: %v", err)
		}
		if !reflect.DeepEqual(repacked, data) {
			t.Fatalf("repack mismatch:\ngot  %v\nwant %v", repacked, data)
		}
	})
}
