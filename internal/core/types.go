package core

import "fmt"

// Hash128 is a 128-bit hash split into two 64-bit halves. The PHF query
// driver treats the first half as the bucketing hash and the second as the
// displacement hash; MurmurHash2-64A produces the same value for both.
type Hash128 struct {
	High uint64
	Low  uint64
}

// First returns the half that feeds the bucketer.
func (h Hash128) First() uint64 { return h.High }

// Second returns the half that feeds displacement.
func (h Hash128) Second() uint64 { return h.Low }

// BucketIDType defines the type for bucket identifiers.
type BucketIDType uint32

// MaxBucketID is the largest representable bucket id.
const MaxBucketID = ^BucketIDType(0)

// BucketSizeType defines the type for bucket sizes.
type BucketSizeType uint8

// MaxBucketSize is the largest representable bucket size.
const MaxBucketSize = BucketSizeType(255)

// BucketPayloadPair associates a bucket id with the displacement half of a
// key's hash, the unit the builder sorts and groups by bucket.
type BucketPayloadPair struct {
	BucketID BucketIDType
	Payload  uint64
}

// Less orders pairs by bucket id, then by payload.
func (bpp BucketPayloadPair) Less(other BucketPayloadPair) bool {
	if bpp.BucketID != other.BucketID {
		return bpp.BucketID < other.BucketID
	}
	return bpp.Payload < other.Payload
}

// String provides a string representation.
func (bpp BucketPayloadPair) String() string {
	return fmt.Sprintf("{BucketID: %d, Payload: %d}", bpp.BucketID, bpp.Payload)
}

// SeedRuntimeError indicates that a chosen seed resulted in a configuration
// the builder cannot resolve (e.g. duplicate payloads, bucket too large).
type SeedRuntimeError struct {
	Msg string
}

func (e SeedRuntimeError) Error() string {
	return fmt.Sprintf("seed did not work: %s", e.Msg)
}

// BucketT provides a view over a slice representing a single bucket's data.
// The underlying slice contains [bucket_id, payload1, payload2, ...].
type BucketT struct {
	data []uint64
	size BucketSizeType
}

// NewBucketT creates a BucketT view. data slice must contain id + size elements.
func NewBucketT(dataSlice []uint64, size BucketSizeType) BucketT {
	if len(dataSlice) != 1+int(size) {
		panic(fmt.Sprintf("NewBucketT: dataSlice length %d does not match size %d", len(dataSlice), size))
	}
	return BucketT{data: dataSlice, size: size}
}

// ID returns the bucket ID.
func (b BucketT) ID() BucketIDType {
	return BucketIDType(b.data[0])
}

// Payloads returns a slice containing only the payload values.
func (b BucketT) Payloads() []uint64 {
	if len(b.data) <= 1 {
		return nil
	}
	return b.data[1:]
}

// Size returns the number of payloads in the bucket.
func (b BucketT) Size() BucketSizeType {
	return b.size
}

// Data returns the underlying [id, payloads...] slice.
func (b BucketT) Data() []uint64 {
	return b.data
}
