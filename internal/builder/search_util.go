package builder

import (
	"time"

	"github.com/aelaguiz/pthash-go/internal/core"
	"github.com/aelaguiz/pthash-go/internal/util"
)

// pilotSearchLogSteps bounds how many progress lines a search prints,
// mirroring the producer's fixed ~20-updates-per-search cadence regardless
// of how many buckets the run has.
const pilotSearchLogSteps = 20

// PilotSearchLogger tracks placed-key and resolved-bucket progress across
// one searchSequentialXOR/searchSequentialAdd call, printing throttled
// status lines through util.Log. Grounded on the producer's
// internal/builder/search_util.go SearchLogger, dropped to a single
// concrete bucketer (this module has only SkewBucketer) instead of a
// generic type parameter.
type PilotSearchLogger struct {
	numKeys     uint64
	numBuckets  uint64
	step        uint64
	placedKeys  uint64
	lastBucket  uint64
	timer       time.Time
	lastLogTime time.Time
	enabled     bool
}

// NewPilotSearchLogger creates a logger for one pilot search over
// numBuckets total buckets (dense and sparse together) mapping numKeys keys.
func NewPilotSearchLogger(numKeys, numBuckets uint64, enabled bool) *PilotSearchLogger {
	sl := &PilotSearchLogger{
		numKeys:    numKeys,
		numBuckets: numBuckets,
		enabled:    enabled,
	}
	if enabled {
		sl.step = 1
		if numBuckets > pilotSearchLogSteps {
			sl.step = numBuckets / pilotSearchLogSteps
		}
		sl.timer = time.Now()
		sl.lastLogTime = sl.timer
		util.Log(true, "pilot search start: %d keys, %d buckets", numKeys, numBuckets)
	}
	return sl
}

// Update records a bucket that just received a pilot, keyed by its position
// in the descending-size search order (not its bucket id).
func (sl *PilotSearchLogger) Update(searchIdx uint64, bucketSize core.BucketSizeType) {
	if !sl.enabled {
		return
	}
	sl.placedKeys += uint64(bucketSize)
	now := time.Now()
	if searchIdx > 0 && (searchIdx%sl.step == 0 || searchIdx == sl.numBuckets-1) && now.Sub(sl.lastLogTime) > 100*time.Millisecond {
		sl.print(searchIdx)
		sl.lastLogTime = now
	}
}

// Finalize prints the closing summary line: elapsed time and the fraction
// of buckets that a skewed key distribution left naturally empty.
func (sl *PilotSearchLogger) Finalize(resolvedBuckets uint64) {
	if !sl.enabled {
		return
	}
	sl.print(resolvedBuckets)
	empty := sl.numBuckets - resolvedBuckets
	emptyPerc := 0.0
	if sl.numBuckets > 0 {
		emptyPerc = float64(empty*100) / float64(sl.numBuckets)
	}
	util.Log(true, "pilot search done: %d empty buckets (%.2f%%)", empty, emptyPerc)
}

func (sl *PilotSearchLogger) print(searchIdx uint64) {
	elapsed := time.Since(sl.timer)
	keysPerc := 0.0
	if sl.numKeys > 0 {
		keysPerc = float64(sl.placedKeys*100) / float64(sl.numKeys)
	}
	bucketsPerc := 0.0
	if sl.numBuckets > 0 {
		bucketsPerc = float64((searchIdx+1)*100) / float64(sl.numBuckets)
	}
	util.Log(true, "  resolved %d buckets in %.2fs (keys placed %.2f%%, buckets resolved %.2f%%)",
		searchIdx+1-sl.lastBucket, elapsed.Seconds(), keysPerc, bucketsPerc)
	sl.timer = time.Now()
	sl.lastBucket = searchIdx + 1
}
