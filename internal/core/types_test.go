package core

import "testing"

func TestBucketPayloadPairLess(t *testing.T) {
	a := BucketPayloadPair{BucketID: 1, Payload: 5}
	b := BucketPayloadPair{BucketID: 1, Payload: 9}
	c := BucketPayloadPair{BucketID: 2, Payload: 0}

	if !a.Less(b) {
		t.Fatalf("expected a < b on payload tiebreak")
	}
	if b.Less(a) {
		t.Fatalf("expected b not < a")
	}
	if !a.Less(c) {
		t.Fatalf("expected a < c on bucket id")
	}
	if a.String() == "" {
		t.Fatalf("String() empty")
	}
}

func TestBucketT(t *testing.T) {
	data := []uint64{7, 100, 200, 300}
	b := NewBucketT(data, 3)

	if b.ID() != 7 {
		t.Fatalf("ID() = %d, want 7", b.ID())
	}
	if b.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", b.Size())
	}
	payloads := b.Payloads()
	if len(payloads) != 3 || payloads[0] != 100 || payloads[2] != 300 {
		t.Fatalf("Payloads() = %v, want [100 200 300]", payloads)
	}
	if len(b.Data()) != 4 {
		t.Fatalf("Data() length = %d, want 4", len(b.Data()))
	}
}

func TestBucketTEmptyPayloads(t *testing.T) {
	b := NewBucketT([]uint64{3}, 0)
	if b.Payloads() != nil {
		t.Fatalf("Payloads() = %v, want nil", b.Payloads())
	}
}

func TestNewBucketTPanicsOnMismatchedLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on mismatched dataSlice length")
		}
	}()
	NewBucketT([]uint64{1, 2}, 5)
}

func TestSeedRuntimeErrorMessage(t *testing.T) {
	err := SeedRuntimeError{Msg: "bucket too large"}
	if err.Error() == "" {
		t.Fatalf("Error() empty")
	}
}

func TestHash128Halves(t *testing.T) {
	h := Hash128{High: 11, Low: 22}
	if h.First() != 11 || h.Second() != 22 {
		t.Fatalf("First/Second = %d/%d, want 11/22", h.First(), h.Second())
	}
}
