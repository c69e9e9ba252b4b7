package builder

import (
	"sort"

	"github.com/aelaguiz/pthash-go/internal/core"
)

// mapToBuckets hashes each key, buckets it by h.First(), and groups the
// results by bucket id, sorted by descending bucket size (§2's "bucket and
// sort" phase; larger buckets are placed first so their harder pilot
// searches run before the table fills up, matching the producer's
// non-parallel skew-bucketer ordering).
func mapToBuckets(keys []uint64, seed uint64, bucketer *core.SkewBucketer) []core.BucketT {
	pairs := make([]core.BucketPayloadPair, len(keys))
	for i, k := range keys {
		h := core.HashU64(k, seed)
		pairs[i] = core.BucketPayloadPair{
			BucketID: bucketer.Bucket(h.First()),
			Payload:  h.Second(),
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Less(pairs[j]) })

	var buckets []core.BucketT
	i := 0
	for i < len(pairs) {
		j := i
		id := pairs[i].BucketID
		for j < len(pairs) && pairs[j].BucketID == id {
			j++
		}
		size := j - i
		if size > int(core.MaxBucketSize) {
			panic(core.SeedRuntimeError{Msg: "bucket size exceeds maximum representable size, choose a different seed"})
		}
		data := make([]uint64, size+1)
		data[0] = uint64(id)
		for k := i; k < j; k++ {
			data[k-i+1] = pairs[k].Payload
		}
		buckets = append(buckets, core.NewBucketT(data, core.BucketSizeType(size)))
		i = j
	}

	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Size() > buckets[j].Size() })
	return buckets
}
