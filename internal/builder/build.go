// Package builder constructs PHF instances (internal/pkg pthash's
// counterpart to the producer's build-time pipeline): bucket-and-sort the
// keys, search for one pilot per bucket, compress the pilot table into a
// DualDictionary, and Elias-Fano-encode the leftover free slots (§2, §4.11).
package builder

import (
	"fmt"

	"github.com/aelaguiz/pthash-go/internal/core"
	"github.com/aelaguiz/pthash-go/internal/keyset"
	"github.com/aelaguiz/pthash-go/internal/util"
)

// Result is the set of built components a caller assembles into a query-time PHF.
type Result struct {
	Seed      uint64
	NumKeys   uint64
	TableSize uint64
	M128      core.M64
	M64       core.M32
	Bucketer  *core.SkewBucketer
	Pilots    *core.DualDictionary
	FreeSlots *core.EliasFano
}

// dualSplitFraction mirrors the producer's front/back pilot dictionary
// split point: the front dictionary covers the dense buckets, which see the
// smallest pilots and compress best kept separate from the sparse tail.
func dualSplitFraction(bucketer *core.SkewBucketer) uint64 {
	return bucketer.NumDense()
}

// BuildSinglePHF runs the full pipeline for a set of distinct 64-bit keys and
// a chosen seed. Returns core.SeedRuntimeError if this seed cannot resolve
// every bucket within the search budget; callers should retry with another
// seed (§4.11's "seed retry loop").
func BuildSinglePHF(keys []uint64, config core.BuildConfig) (*Result, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("builder: cannot build a PHF over zero keys")
	}
	if err := keyset.CheckDistinct(keys); err != nil {
		return nil, err
	}
	numKeys := uint64(len(keys))
	numBuckets := core.ComputeNumBuckets(numKeys, config.Lambda)
	tableSize := core.MinimalTableSize(numKeys, config.Alpha, config.Search)

	seed := config.Seed
	if seed == core.InvalidSeed {
		seed = defaultSeed(keys)
	}

	bucketer, err := core.NewSkewBucketer(numBuckets)
	if err != nil {
		return nil, err
	}

	buckets := mapToBuckets(keys, seed, bucketer)
	taken := core.NewBitVectorBuilder(tableSize)
	for i := uint64(0); i < tableSize; i++ {
		taken.PushBack(false)
	}

	var pilots []uint64
	switch config.Search {
	case core.SearchTypeAdd:
		pilots, err = searchSequentialAdd(buckets, seed, taken, tableSize, numBuckets, config.Verbose)
	default:
		pilots, err = searchSequentialXOR(buckets, seed, taken, tableSize, numBuckets, config.Verbose)
	}
	if err != nil {
		return nil, err
	}

	freeSlots := collectFreeSlots(taken, numKeys, tableSize, config.Minimal)

	splitPoint := dualSplitFraction(bucketer)
	if splitPoint > uint64(len(pilots)) {
		splitPoint = uint64(len(pilots))
	}
	dual := core.BuildDualDictionary(pilots, splitPoint)

	util.Log(config.Verbose, "builder: n=%d buckets=%d table_size=%d seed=%d free_slots=%d",
		numKeys, numBuckets, tableSize, seed, freeSlots.Size())

	return &Result{
		Seed:      seed,
		NumKeys:   numKeys,
		TableSize: tableSize,
		M128:      core.ComputeM64(tableSize),
		M64:       core.ComputeM32(uint32(tableSize)),
		Bucketer:  bucketer,
		Pilots:    dual,
		FreeSlots: freeSlots,
	}, nil
}

// collectFreeSlots returns the remap table a Minimal PHF's out-of-range
// positions go through (§4.9 step 5): one entry per position p in
// [num_keys, table_size). A claimed p maps to the next position in
// [0, num_keys) that the pilot search left unclaimed; an unclaimed p repeats
// the previous entry, so the sequence is non-decreasing.
func collectFreeSlots(taken *core.BitVectorBuilder, numKeys, tableSize uint64, minimal bool) *core.EliasFano {
	var free []uint64
	if minimal {
		next, last := uint64(0), uint64(0)
		for pos := numKeys; pos < tableSize; pos++ {
			if taken.Get(pos) {
				for taken.Get(next) {
					next++
				}
				last = next
				next++
			}
			free = append(free, last)
		}
	}
	back := tableSize
	if len(free) == 0 {
		ef, _ := core.EncodeEliasFano(nil, back, true, false)
		return ef
	}
	ef, err := core.EncodeEliasFano(free, back, true, false)
	if err != nil {
		panic(err) // free is constructed non-decreasing; NotSorted cannot occur
	}
	return ef
}

// defaultSeed derives a starting seed deterministically from the key set
// when the caller doesn't pin one, so repeated builds over the same input
// are reproducible.
func defaultSeed(keys []uint64) uint64 {
	seed := uint64(0x9e3779b97f4a7c15)
	for _, k := range keys {
		seed = core.Mix64(seed ^ k)
	}
	return seed
}

// BuildWithRetry retries Build with successive seeds until one resolves,
// bounded by maxAttempts (§4.11: seed collisions are expected and retried,
// not fatal).
func BuildWithRetry(keys []uint64, config core.BuildConfig, maxAttempts int) (*Result, error) {
	seed := config.Seed
	if seed == core.InvalidSeed {
		seed = defaultSeed(keys)
	}
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		cfg := config
		cfg.Seed = seed
		res, err := BuildSinglePHF(keys, cfg)
		if err == nil {
			return res, nil
		}
		if _, ok := err.(core.SeedRuntimeError); !ok {
			return nil, err
		}
		lastErr = err
		seed = core.Mix64(seed + 1)
	}
	return nil, fmt.Errorf("builder: exhausted %d seed attempts: %w", maxAttempts, lastErr)
}
