package bio

import "testing"

func TestBitBufferPushAndRead(t *testing.T) {
	b := NewBitBuffer(0)
	want := []bool{true, false, true, true, false}
	for _, bit := range want {
		b.PushBack(bit)
	}
	if b.Len() != len(want) {
		t.Fatalf("got len %d, want %d", b.Len(), len(want))
	}
	for i, bit := range want {
		if b.Bit(i) != bit {
			t.Errorf("bit %d: got %v, want %v", i, b.Bit(i), bit)
		}
	}
}

func TestBitBufferPadToByte(t *testing.T) {
	b := NewBitBuffer(0)
	for i := 0; i < 3; i++ {
		b.PushBack(true)
	}
	b.PadToByte()
	if b.Len() != 8 {
		t.Fatalf("got len %d, want 8", b.Len())
	}
	for i := 3; i < 8; i++ {
		if b.Bit(i) {
			t.Errorf("pad bit %d should be false", i)
		}
	}
}

func TestBitBufferReset(t *testing.T) {
	b := NewBitBuffer(0)
	b.PushBack(true)
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("got len %d, want 0", b.Len())
	}
}
