package builder

import (
	"testing"

	"github.com/aelaguiz/pthash-go/internal/core"
)

func TestMapToBucketsCoversAllKeys(t *testing.T) {
	keys := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	bucketer, err := core.NewSkewBucketer(core.ComputeNumBuckets(uint64(len(keys)), 4.0))
	if err != nil {
		t.Fatalf("NewSkewBucketer: %v", err)
	}

	buckets := mapToBuckets(keys, 7, bucketer)
	total := 0
	for _, b := range buckets {
		total += int(b.Size())
	}
	if total != len(keys) {
		t.Fatalf("bucketed %d payloads, want %d", total, len(keys))
	}

	for i := 1; i < len(buckets); i++ {
		if buckets[i-1].Size() < buckets[i].Size() {
			t.Fatalf("buckets not sorted by descending size at index %d: %d < %d",
				i, buckets[i-1].Size(), buckets[i].Size())
		}
	}
}
