package core

import (
	"fmt"
	"testing"
)

func TestCompactVectorBasic(t *testing.T) {
	tests := []struct {
		n uint64
		w uint8
	}{
		{0, 0}, {0, 8}, {10, 0}, {10, 1}, {10, 7}, {10, 12},
		{100, 3}, {100, 33}, {100, 64},
		{64, 10}, {65, 10}, // boundary cases around words
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("N=%d,W=%d", tc.n, tc.w), func(t *testing.T) {
			cv := NewCompactVector(tc.n, tc.w)
			if cv.Size() != tc.n {
				t.Errorf("Size() = %d, want %d", cv.Size(), tc.n)
			}
			if cv.Width() != tc.w {
				t.Errorf("Width() = %d, want %d", cv.Width(), tc.w)
			}

			max := maskFor(tc.w)
			for i := uint64(0); i < tc.n; i++ {
				v := (i * 2654435761) & max
				cv.Set(i, v)
			}
			for i := uint64(0); i < tc.n; i++ {
				want := (i * 2654435761) & max
				if got := cv.Access(i); got != want {
					t.Fatalf("Access(%d) = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestCompactVectorRoundTrip(t *testing.T) {
	cv := NewCompactVector(50, 17)
	for i := uint64(0); i < 50; i++ {
		cv.Set(i, i*37%(1<<17))
	}
	data, err := cv.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var got CompactVector
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if got.Size() != cv.Size() || got.Width() != cv.Width() {
		t.Fatalf("header mismatch: size=%d/%d width=%d/%d", got.Size(), cv.Size(), got.Width(), cv.Width())
	}
	for i := uint64(0); i < 50; i++ {
		if got.Access(i) != cv.Access(i) {
			t.Errorf("Access(%d) = %d, want %d", i, got.Access(i), cv.Access(i))
		}
	}
}

func TestCompactVectorIteratorMatchesAccess(t *testing.T) {
	cv := NewCompactVector(37, 13)
	max := maskFor(13)
	for i := uint64(0); i < 37; i++ {
		cv.Set(i, (i*104729)&max)
	}

	it := cv.Iter(0)
	for i := uint64(0); i < 37; i++ {
		if !it.HasNext() {
			t.Fatalf("HasNext() = false at i=%d, want true", i)
		}
		want := cv.Access(i)
		if got := it.Value(); got != want {
			t.Errorf("Value() at i=%d = %d, want %d", i, got, want)
		}
		if got := it.Next(); got != want {
			t.Errorf("Next() at i=%d = %d, want %d", i, got, want)
		}
	}
	if it.HasNext() {
		t.Fatalf("HasNext() = true after exhausting all elements")
	}
}

func TestCompactVectorIteratorMidStart(t *testing.T) {
	cv := NewCompactVector(20, 9)
	for i := uint64(0); i < 20; i++ {
		cv.Set(i, i*3)
	}
	it := cv.Iter(5)
	for i := uint64(5); i < 20; i++ {
		if got, want := it.Next(), cv.Access(i); got != want {
			t.Errorf("Next() at i=%d = %d, want %d", i, got, want)
		}
	}
}

func TestCompactVectorBuilder(t *testing.T) {
	b := NewCompactVectorBuilder(5, 6)
	for i := uint64(0); i < 5; i++ {
		b.Set(i, i+1)
	}
	cv := b.Build()
	for i := uint64(0); i < 5; i++ {
		if cv.Access(i) != i+1 {
			t.Errorf("Access(%d) = %d, want %d", i, cv.Access(i), i+1)
		}
	}
}
