package core

import "math"

// Constants shared with the C++ producer.
const (
	InvalidSeed = uint64(math.MaxUint64)
	ConstA      = 0.6 // skew bucketer hash threshold
	ConstB      = 0.3 // skew bucketer dense-bucket fraction
)

// SearchType selects the pilot search / displacement algorithm.
type SearchType int

const (
	SearchTypeXOR SearchType = iota
	SearchTypeAdd
)

// BuildConfig holds the parameters the builder needs. Partition-oriented
// knobs are intentionally absent: this module builds single, non-partitioned
// PHFs only (see DESIGN.md, the config.go entry and "Non-goals").
type BuildConfig struct {
	Lambda  float64 // target average bucket size
	Alpha   float64 // load factor
	Search  SearchType
	Seed    uint64 // InvalidSeed derives a seed deterministically from the keys
	Minimal bool
	Verbose bool
}

// DefaultBuildConfig returns sane defaults matching the producer's own.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		Lambda:  4.5,
		Alpha:   0.94,
		Search:  SearchTypeXOR,
		Seed:    InvalidSeed,
		Minimal: true,
		Verbose: false,
	}
}

// ComputeNumBuckets returns ceil(numKeys/avgBucketSize).
func ComputeNumBuckets(numKeys uint64, avgBucketSize float64) uint64 {
	if avgBucketSize <= 0 {
		panic("average bucket size must be positive")
	}
	return uint64(math.Ceil(float64(numKeys) / avgBucketSize))
}

// MinimalTableSize computes the target table size for numKeys keys at load
// factor alpha, nudging XOR-displacement tables off exact powers of two
// (fastmod by a power of two degenerates the reciprocal).
func MinimalTableSize(numKeys uint64, alpha float64, search SearchType) uint64 {
	if alpha <= 0 {
		return numKeys
	}
	tableSize := uint64(float64(numKeys) / alpha)
	if tableSize < numKeys {
		tableSize = numKeys
	}
	if search == SearchTypeXOR && tableSize > 0 && tableSize&(tableSize-1) == 0 {
		tableSize++
	}
	return tableSize
}
