package core

import (
	"fmt"
	"math"

	"github.com/aelaguiz/pthash-go/internal/serial"
)

// Bucketer maps a hash to a bucket id. SkewBucketer is the only
// implementation this module needs: the PHF format is pinned to it.
type Bucketer interface {
	Bucket(hash uint64) BucketIDType
	NumBuckets() uint64
}

// skewThreshold is T = floor(a * 2^64) from §4.6, computed once.
var skewThreshold = uint64(ConstA * float64(math.MaxUint64))

// SkewBucketer implements the two-region skew bucketing strategy (§4.6):
// a dense region taking the fraction b=0.3 of buckets for hashes below the
// threshold a=0.6*2^64, and a sparse region for the rest.
type SkewBucketer struct {
	numDense  uint64
	numSparse uint64
	mDense    M64
	mSparse   M64
}

// NewSkewBucketer initializes a SkewBucketer over numBuckets buckets.
func NewSkewBucketer(numBuckets uint64) (*SkewBucketer, error) {
	if numBuckets == 0 {
		return nil, fmt.Errorf("SkewBucketer requires numBuckets > 0")
	}
	b := &SkewBucketer{
		numDense: uint64(ConstB * float64(numBuckets)),
	}
	b.numSparse = numBuckets - b.numDense
	if b.numDense > 0 {
		b.mDense = ComputeM64(b.numDense)
	}
	if b.numSparse > 0 {
		b.mSparse = ComputeM64(b.numSparse)
	}
	return b, nil
}

// Bucket assigns hash to a bucket id per §4.6.
func (b *SkewBucketer) Bucket(hash uint64) BucketIDType {
	if hash < skewThreshold {
		if b.numDense == 0 {
			return 0
		}
		return BucketIDType(FastModU64(hash, b.mDense, b.numDense))
	}
	if b.numSparse == 0 {
		return BucketIDType(b.numDense - 1)
	}
	return BucketIDType(b.numDense + FastModU64(hash, b.mSparse, b.numSparse))
}

// NumBuckets returns numDense+numSparse.
func (b *SkewBucketer) NumBuckets() uint64 { return b.numDense + b.numSparse }

// NumDense returns the number of dense buckets.
func (b *SkewBucketer) NumDense() uint64 { return b.numDense }

// NumSparse returns the number of sparse buckets.
func (b *SkewBucketer) NumSparse() uint64 { return b.numSparse }

// MarshalBinary implements encoding.BinaryMarshaler per §6's SkewBucketer grammar.
func (b *SkewBucketer) MarshalBinary() ([]byte, error) {
	w := serial.NewWriter()
	b.WriteTo(w)
	return w.Bytes(), nil
}

// WriteTo writes this bucketer's fields into a shared Writer.
func (b *SkewBucketer) WriteTo(w *serial.Writer) {
	w.WriteU64(b.numDense)
	w.WriteU64(b.numSparse)
	w.WriteU128(b.mDense.High, b.mDense.Low)
	w.WriteU128(b.mSparse.High, b.mSparse.Low)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (b *SkewBucketer) UnmarshalBinary(data []byte) error {
	return b.ReadFrom(serial.NewReader(data))
}

// ReadFrom reads this bucketer's fields from a shared Reader.
func (b *SkewBucketer) ReadFrom(r *serial.Reader) error {
	numDense, err := r.ReadU64()
	if err != nil {
		return ErrShortRead
	}
	numSparse, err := r.ReadU64()
	if err != nil {
		return ErrShortRead
	}
	dh, dl, err := r.ReadU128()
	if err != nil {
		return ErrShortRead
	}
	sh, sl, err := r.ReadU128()
	if err != nil {
		return ErrShortRead
	}
	b.numDense = numDense
	b.numSparse = numSparse
	b.mDense = M64{High: dh, Low: dl}
	b.mSparse = M64{High: sh, Low: sl}
	return nil
}
