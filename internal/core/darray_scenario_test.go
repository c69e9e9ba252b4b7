package core

import "testing"

// TestDarrayScenarioD reproduces spec Scenario D: bits set at i*40 + 2*i for
// i in [0, 250), and select(100) must equal 100*40 + 200 == 4200.
func TestDarrayScenarioD(t *testing.T) {
	bv := NewBitVector(10500)
	for i := uint64(0); i < 250; i++ {
		bv.Set(i*40 + 2*i)
	}
	d := NewDarray(bv)
	if got := d.Select(bv, 100); got != 4200 {
		t.Fatalf("Select(100) = %d, want 4200", got)
	}
}
