package core

import "testing"

func TestEliasFanoScenarioC(t *testing.T) {
	seq := []uint64{3, 8, 10, 15, 21, 22, 30, 31, 45, 50}
	ef, err := EncodeEliasFano(seq, 50, false, false)
	if err != nil {
		t.Fatalf("EncodeEliasFano: %v", err)
	}
	cases := map[uint64]uint64{0: 3, 3: 15, 5: 22, 9: 50}
	for i, want := range cases {
		if got := ef.Access(i); got != want {
			t.Errorf("Access(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestEliasFanoDenseUniverseZeroWidth(t *testing.T) {
	// back/n < 2 forces l == 0: every value fits entirely in the high bits.
	seq := []uint64{0, 1, 1, 2}
	ef, err := EncodeEliasFano(seq, 2, false, false)
	if err != nil {
		t.Fatalf("EncodeEliasFano: %v", err)
	}
	if ef.l != 0 {
		t.Fatalf("l = %d, want 0", ef.l)
	}
	for i, want := range seq {
		if got := ef.Access(uint64(i)); got != want {
			t.Errorf("Access(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestEliasFanoSingleton(t *testing.T) {
	ef, err := EncodeEliasFano([]uint64{42}, 42, false, false)
	if err != nil {
		t.Fatalf("EncodeEliasFano: %v", err)
	}
	if ef.Access(0) != 42 {
		t.Fatalf("Access(0) = %d, want 42", ef.Access(0))
	}
}

func TestEliasFanoEmpty(t *testing.T) {
	ef, err := EncodeEliasFano(nil, 0, true, false)
	if err != nil {
		t.Fatalf("EncodeEliasFano: %v", err)
	}
	if ef.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", ef.Size())
	}
}

func TestEliasFanoRejectsUnsorted(t *testing.T) {
	_, err := EncodeEliasFano([]uint64{5, 3}, 5, false, false)
	if _, ok := err.(NotSorted); !ok {
		t.Fatalf("expected NotSorted error, got %v", err)
	}
}

func TestEliasFanoNextGeqPrevLeq(t *testing.T) {
	seq := []uint64{3, 8, 10, 15, 21, 22, 30, 31, 45, 50}
	ef, err := EncodeEliasFano(seq, 50, true, false)
	if err != nil {
		t.Fatalf("EncodeEliasFano: %v", err)
	}
	if v, ok := ef.NextGeq(9); !ok || v != 10 {
		t.Errorf("NextGeq(9) = (%d, %v), want (10, true)", v, ok)
	}
	if v, ok := ef.NextGeq(3); !ok || v != 3 {
		t.Errorf("NextGeq(3) = (%d, %v), want (3, true)", v, ok)
	}
	if _, ok := ef.NextGeq(51); ok {
		t.Errorf("NextGeq(51) should not exist")
	}
	if v, ok := ef.PrevLeq(9); !ok || v != 8 {
		t.Errorf("PrevLeq(9) = (%d, %v), want (8, true)", v, ok)
	}
	if _, ok := ef.PrevLeq(2); ok {
		t.Errorf("PrevLeq(2) should not exist")
	}
}

func TestEliasFanoEncodePrefixSum(t *testing.T) {
	deltas := []uint64{5, 0, 3, 7, 2}
	ef, err := EncodeEliasFano(deltas, 0, false, true)
	if err != nil {
		t.Fatalf("EncodeEliasFano: %v", err)
	}
	if ef.Size() != uint64(len(deltas)+1) {
		t.Fatalf("Size() = %d, want %d", ef.Size(), len(deltas)+1)
	}
	wantPrefix := []uint64{0, 5, 5, 8, 15, 17}
	for i, want := range wantPrefix {
		if got := ef.Access(uint64(i)); got != want {
			t.Errorf("Access(%d) = %d, want %d", i, got, want)
		}
	}
	for i, want := range deltas {
		if got := ef.Diff(uint64(i)); got != want {
			t.Errorf("Diff(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestEliasFanoEncodePrefixSumOverridesBack(t *testing.T) {
	// The caller-supplied back is ignored in prefix-sum mode: universe
	// becomes the running sum's final total (§4.4 step 1).
	deltas := []uint64{1, 2, 3}
	ef, err := EncodeEliasFano(deltas, 0, false, true)
	if err != nil {
		t.Fatalf("EncodeEliasFano: %v", err)
	}
	if ef.back != 6 {
		t.Fatalf("back = %d, want 6 (final prefix sum)", ef.back)
	}
}

func TestEliasFanoEncodePrefixSumEmpty(t *testing.T) {
	ef, err := EncodeEliasFano(nil, 0, false, true)
	if err != nil {
		t.Fatalf("EncodeEliasFano: %v", err)
	}
	if ef.Size() != 1 {
		t.Fatalf("Size() = %d, want 1 (just the leading 0)", ef.Size())
	}
	if ef.Access(0) != 0 {
		t.Fatalf("Access(0) = %d, want 0", ef.Access(0))
	}
}

func TestEliasFanoRoundTrip(t *testing.T) {
	seq := []uint64{3, 8, 10, 15, 21, 22, 30, 31, 45, 50}
	ef, err := EncodeEliasFano(seq, 50, true, false)
	if err != nil {
		t.Fatalf("EncodeEliasFano: %v", err)
	}
	data, err := ef.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got EliasFano
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	got.SetFlags(true, false)
	for i, want := range seq {
		if g := got.Access(uint64(i)); g != want {
			t.Errorf("Access(%d) = %d, want %d", i, g, want)
		}
	}
	if v, ok := got.NextGeq(9); !ok || v != 10 {
		t.Errorf("NextGeq(9) after round trip = (%d, %v), want (10, true)", v, ok)
	}
}
