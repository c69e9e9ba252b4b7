package core

import "testing"

func TestFastModU64ScenarioA(t *testing.T) {
	a := uint64(10978613219408062656)
	m := M64{High: 134647766961383588, Low: 8078866017683015307}
	d := uint64(137)
	if got := FastModU64(a, m, d); got != 90 {
		t.Fatalf("FastModU64 = %d, want 90", got)
	}
}

func TestFastModU64ScenarioB(t *testing.T) {
	a := uint64(18424673762719242200)
	m := M64{High: 57288025073632147, Low: 16155223070764265701}
	d := uint64(322)
	if got := FastModU64(a, m, d); got != 28 {
		t.Fatalf("FastModU64 = %d, want 28", got)
	}
}

func TestFastModU64AgreesWithHardwareModulo(t *testing.T) {
	divisors := []uint64{2, 3, 7, 137, 1024, 1_000_003}
	for _, d := range divisors {
		m := ComputeM64(d)
		for _, a := range []uint64{0, 1, d - 1, d, d + 1, ^uint64(0), 1 << 40} {
			want := a % d
			if got := FastModU64(a, m, d); got != want {
				t.Errorf("FastModU64(%d, d=%d) = %d, want %d", a, d, got, want)
			}
		}
	}
}

func TestFastModU32AgreesWithHardwareModulo(t *testing.T) {
	divisors := []uint32{2, 3, 7, 137, 1 << 20}
	for _, d := range divisors {
		m := ComputeM32(d)
		for _, a := range []uint32{0, 1, d - 1, d, d + 1, ^uint32(0)} {
			want := a % d
			if got := FastModU32(a, m, d); got != want {
				t.Errorf("FastModU32(%d, d=%d) = %d, want %d", a, d, got, want)
			}
			wantDiv := a / d
			if gotDiv := FastDivU32(a, m); gotDiv != wantDiv {
				t.Errorf("FastDivU32(%d, d=%d) = %d, want %d", a, d, gotDiv, wantDiv)
			}
		}
	}
}
