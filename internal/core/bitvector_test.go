package core

import (
	"testing"
)

func TestBitVectorBasic(t *testing.T) {
	size := uint64(100)
	bv := NewBitVector(size)

	if bv.Size() != size {
		t.Fatalf("Expected size %d, got %d", size, bv.Size())
	}
	for i := uint64(0); i < size; i++ {
		if bv.Get(i) {
			t.Errorf("Bit %d should be 0 initially", i)
		}
	}

	bv.Set(0)
	bv.Set(10)
	bv.Set(63)
	bv.Set(64)
	bv.Set(99)

	for _, pos := range []uint64{0, 10, 63, 64, 99} {
		if !bv.Get(pos) {
			t.Errorf("Bit %d should be set", pos)
		}
	}
	if bv.Get(65) {
		t.Errorf("Bit 65 should not be set")
	}

	bv.Unset(10)
	if bv.Get(10) {
		t.Errorf("Bit 10 should be unset after Unset")
	}
}

func TestBitVectorOnes(t *testing.T) {
	bv := NewBitVector(200)
	want := []uint64{3, 8, 63, 64, 65, 127, 199}
	for _, p := range want {
		bv.Set(p)
	}
	got := bv.Ones()
	if len(got) != len(want) {
		t.Fatalf("Ones() length = %d, want %d", len(got), len(want))
	}
	for i, p := range want {
		if got[i] != p {
			t.Errorf("Ones()[%d] = %d, want %d", i, got[i], p)
		}
	}
}

func TestBitVectorRoundTrip(t *testing.T) {
	bv := NewBitVector(130)
	bv.Set(0)
	bv.Set(65)
	bv.Set(129)

	data, err := bv.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got BitVector
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Size() != bv.Size() {
		t.Fatalf("Size mismatch: got %d, want %d", got.Size(), bv.Size())
	}
	for _, p := range []uint64{0, 65, 129} {
		if !got.Get(p) {
			t.Errorf("bit %d lost across round trip", p)
		}
	}
}

func TestBitVectorBuilderAppendBits(t *testing.T) {
	b := NewBitVectorBuilder(0)
	b.AppendBits(0x7, 3)  // 111
	b.AppendBits(0x0, 2)  // 00
	b.AppendBits(0x1F, 5) // 11111, crosses no boundary yet (size=10)
	bv := b.Build()

	if bv.Size() != 10 {
		t.Fatalf("Size() = %d, want 10", bv.Size())
	}
	for _, p := range []uint64{0, 1, 2, 5, 6, 7, 8, 9} {
		if !bv.Get(p) {
			t.Errorf("expected bit %d set", p)
		}
	}
	for _, p := range []uint64{3, 4} {
		if bv.Get(p) {
			t.Errorf("expected bit %d unset", p)
		}
	}
}

func TestBitVectorBuilderAppendBitsCrossesWord(t *testing.T) {
	b := NewBitVectorBuilder(0)
	b.AppendBits(^uint64(0), 64) // fill first word
	b.AppendBits(0x3, 4)         // spills into second word
	bv := b.Build()

	if bv.Size() != 68 {
		t.Fatalf("Size() = %d, want 68", bv.Size())
	}
	for i := uint64(0); i < 64; i++ {
		if !bv.Get(i) {
			t.Errorf("expected bit %d set", i)
		}
	}
	if !bv.Get(64) || !bv.Get(65) {
		t.Errorf("expected bits 64,65 set")
	}
	if bv.Get(66) || bv.Get(67) {
		t.Errorf("expected bits 66,67 unset")
	}
}
