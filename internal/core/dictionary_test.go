package core

import "testing"

func TestDictionaryDeduplicatesAndRoundTrips(t *testing.T) {
	pilots := []uint64{5, 3, 5, 5, 8, 3, 0, 8}
	d := BuildDictionary(pilots)
	if d.Size() != uint64(len(pilots)) {
		t.Fatalf("Size() = %d, want %d", d.Size(), len(pilots))
	}
	for i, want := range pilots {
		if got := d.Access(uint64(i)); got != want {
			t.Errorf("Access(%d) = %d, want %d", i, got, want)
		}
	}

	data, err := d.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got Dictionary
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	for i, want := range pilots {
		if g := got.Access(uint64(i)); g != want {
			t.Errorf("Access(%d) after round trip = %d, want %d", i, g, want)
		}
	}
}

func TestDualDictionaryRouting(t *testing.T) {
	pilots := []uint64{1, 2, 3, 4, 5, 6}
	dd := BuildDualDictionary(pilots, 2)
	if dd.NumBuckets() != uint64(len(pilots)) {
		t.Fatalf("NumBuckets() = %d, want %d", dd.NumBuckets(), len(pilots))
	}
	for i, want := range pilots {
		if got := dd.Access(uint64(i)); got != want {
			t.Errorf("Access(%d) = %d, want %d", i, got, want)
		}
	}

	data, err := dd.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got DualDictionary
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	for i, want := range pilots {
		if g := got.Access(uint64(i)); g != want {
			t.Errorf("Access(%d) after round trip = %d, want %d", i, g, want)
		}
	}
}

func TestDualDictionaryEmptyFront(t *testing.T) {
	pilots := []uint64{9, 4, 1}
	dd := BuildDualDictionary(pilots, 0)
	for i, want := range pilots {
		if got := dd.Access(uint64(i)); got != want {
			t.Errorf("Access(%d) = %d, want %d", i, got, want)
		}
	}
}
