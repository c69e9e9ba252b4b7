package builder

import (
	"fmt"
	"sort"

	"github.com/aelaguiz/pthash-go/internal/core"
	"github.com/aelaguiz/pthash-go/internal/util"
)

// maxPilotAttempts bounds the pilot search for a single bucket; exceeding it
// means the current seed cannot resolve this bucket and the caller should
// retry the whole build with a different seed.
const maxPilotAttempts = 10_000_000

// searchCacheSize precomputes default_hash64(pilot, seed) for small pilots,
// since the vast majority of buckets succeed on one of the first few tries.
const searchCacheSize = 10_000

// searchSequentialXOR finds one pilot per bucket using xor_displacement
// (§4.9), in descending bucket-size order, marking claimed slots in taken as
// it goes. Grounded on the producer's sequential search loop, stripped of
// its parallel variant and deep-debug tracing (search is a build-time-only
// concern; see DESIGN.md).
func searchSequentialXOR(buckets []core.BucketT, seed uint64, taken *core.BitVectorBuilder, tableSize uint64, numBuckets uint64, verbose bool) ([]uint64, error) {
	mTableSize := core.ComputeM64(tableSize)
	cache := make([]uint64, searchCacheSize)
	for i := range cache {
		cache[i] = core.DefaultHash64(uint64(i), seed)
	}

	pilots := make([]uint64, numBuckets)
	positions := make([]uint64, 0, core.MaxBucketSize)

	logger := NewPilotSearchLogger(totalKeys(buckets), numBuckets, verbose)

	searchIdx := uint64(0)
	for _, bucket := range buckets {
		if bucket.Size() == 0 {
			continue
		}
		bucketID := bucket.ID()
		payloads := bucket.Payloads()

		found := false
		for pilot := uint64(0); pilot < maxPilotAttempts; pilot++ {
			hp := uint64(0)
			if pilot < searchCacheSize {
				hp = cache[pilot]
			} else {
				hp = core.DefaultHash64(pilot, seed)
			}

			positions = positions[:0]
			collides := false
			for _, payload := range payloads {
				p := core.FastModU64(payload^hp, mTableSize, tableSize)
				if taken.Get(p) {
					collides = true
					break
				}
				positions = append(positions, p)
			}
			if !collides {
				collides = hasDuplicate(positions)
			}
			if collides {
				continue
			}

			for _, p := range positions {
				taken.Set(p)
			}
			pilots[bucketID] = pilot
			found = true
			break
		}
		if !found {
			return nil, core.SeedRuntimeError{Msg: fmt.Sprintf("pilot search limit reached for bucket %d (size %d)", bucketID, bucket.Size())}
		}
		logger.Update(searchIdx, bucket.Size())
		searchIdx++
	}
	logger.Finalize(searchIdx)
	util.Log(verbose, "searchSequentialXOR: resolved %d buckets", searchIdx)
	return pilots, nil
}

// searchSequentialAdd finds one pilot per bucket using add_displacement
// (§4.9). Grounded on the producer's additive search loop.
func searchSequentialAdd(buckets []core.BucketT, seed uint64, taken *core.BitVectorBuilder, tableSize uint64, numBuckets uint64, verbose bool) ([]uint64, error) {
	m32 := core.ComputeM32(uint32(tableSize))
	d32 := uint32(tableSize)

	pilots := make([]uint64, numBuckets)
	positions := make([]uint64, 0, core.MaxBucketSize)

	logger := NewPilotSearchLogger(totalKeys(buckets), numBuckets, verbose)

	searchIdx := uint64(0)
	for _, bucket := range buckets {
		if bucket.Size() == 0 {
			continue
		}
		bucketID := bucket.ID()
		payloads := bucket.Payloads()

		found := false
		for pilot := uint64(0); pilot < maxPilotAttempts; pilot++ {
			s := core.FastDivU32(uint32(pilot), m32)

			positions = positions[:0]
			collides := false
			for _, payload := range payloads {
				m := core.Mix64(payload + uint64(s))
				sum := (m >> 33) + pilot
				p := uint64(core.FastModU32(uint32(sum), m32, d32))
				if taken.Get(p) {
					collides = true
					break
				}
				positions = append(positions, p)
			}
			if !collides {
				collides = hasDuplicate(positions)
			}
			if collides {
				continue
			}

			for _, p := range positions {
				taken.Set(p)
			}
			pilots[bucketID] = pilot
			found = true
			break
		}
		if !found {
			return nil, core.SeedRuntimeError{Msg: fmt.Sprintf("pilot search limit reached for bucket %d (size %d)", bucketID, bucket.Size())}
		}
		logger.Update(searchIdx, bucket.Size())
		searchIdx++
	}
	logger.Finalize(searchIdx)
	util.Log(verbose, "searchSequentialAdd: resolved %d buckets", searchIdx)
	return pilots, nil
}

// totalKeys sums bucket sizes across the mapping phase's output, giving the
// pilot search logger a key count without threading numKeys through every
// call site.
func totalKeys(buckets []core.BucketT) uint64 {
	var n uint64
	for _, b := range buckets {
		n += uint64(b.Size())
	}
	return n
}

func hasDuplicate(positions []uint64) bool {
	if len(positions) < 2 {
		return false
	}
	sorted := append([]uint64(nil), positions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return true
		}
	}
	return false
}
