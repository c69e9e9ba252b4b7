package core

import (
	"math/bits"

	"github.com/aelaguiz/pthash-go/internal/serial"
)

// EliasFano encodes a monotone, non-decreasing sequence of n u64 values in
// the classic split-into-high/low-bits form (§4.4): each value v is split at
// l = max(0, msb(back/n)) bits into a low part (packed into a CompactVector)
// and a high part (unary-coded, one bit per value, into a BitVector of
// n + (last >> l) + 1 bits so that highD1.Select(i) - i recovers the
// high part of the i-th value).
//
// indexZeros additionally builds a select-0 index over the high bits,
// enabling NextGeq/PrevLeq. encodePrefixSum treats the sequence as a
// prefix-sum table and exposes Diff(i) = Access(i+1) - Access(i).
type EliasFano struct {
	n               uint64
	back            uint64 // universe upper bound (last value, or its bound)
	l               uint8
	low             *CompactVector
	high            *BitVector
	highD1          *Darray
	highD0          *Darray // present only when indexZeros
	indexZeros      bool
	encodePrefixSum bool
}

// msb returns floor(log2(x)), or 0 for x == 0 (matches the "msb(universe/n)"
// idiom the pack's Erigon eliasfano16 uses for l selection).
func msb(x uint64) uint8 {
	if x == 0 {
		return 0
	}
	return uint8(bits.Len64(x) - 1)
}

// EncodeEliasFano builds an EliasFano over seq, which must be sorted
// ascending (§4.4's "monotone sequence" precondition; NotSorted is returned
// otherwise). back is the sequence's universe bound (typically seq[n-1], or
// table_size when encoding free slots).
func EncodeEliasFano(seq []uint64, back uint64, indexZeros, encodePrefixSum bool) (*EliasFano, error) {
	if encodePrefixSum {
		// §4.4 step 1: seq holds deltas s0, s1, ...; the actual stored
		// sequence is their running sum prefixed with 0, and the universe
		// becomes the final total rather than the caller-supplied back.
		stored := make([]uint64, len(seq)+1)
		var sum uint64
		for i, s := range seq {
			sum += s
			stored[i+1] = sum
		}
		seq = stored
		back = sum
	}

	n := uint64(len(seq))
	for i := uint64(1); i < n; i++ {
		if seq[i] < seq[i-1] {
			return nil, NotSorted{Index: i}
		}
	}

	var l uint8
	if n > 0 {
		l = msb(back / n)
	}

	low := NewCompactVector(n, l)
	highBits := uint64(0)
	if n > 0 {
		highBits = n + (seq[n-1]>>l) + 1
	}

	hb := NewBitVectorBuilder(highBits)
	for i := uint64(0); i < n; i++ {
		v := seq[i]
		if l > 0 {
			low.Set(i, v&((uint64(1)<<l)-1))
		}
		high := v >> l
		hb.Set(high + i)
	}
	// Force the builder's conceptual size to highBits even if the final bits
	// are unset, so serialization round-trips the exact bit count.
	for hb.Size() < highBits {
		hb.PushBack(false)
	}
	high := hb.Build()

	ef := &EliasFano{
		n:               n,
		back:            back,
		l:               l,
		low:             low,
		high:            high,
		highD1:          NewDarray(high),
		indexZeros:      indexZeros,
		encodePrefixSum: encodePrefixSum,
	}
	if indexZeros {
		d0 := NewDarray0(high)
		ef.highD0 = d0
	}
	return ef, nil
}

// Size returns the number of encoded values.
func (ef *EliasFano) Size() uint64 { return ef.n }

// Access returns the i-th value (§4.4).
func (ef *EliasFano) Access(i uint64) uint64 {
	high := ef.highD1.Select(ef.high, i) - i
	if ef.l == 0 {
		return high
	}
	return (high << ef.l) | ef.low.Access(i)
}

// Diff returns Access(i+1) - Access(i) for the prefix-sum encoding (§4.4).
func (ef *EliasFano) Diff(i uint64) uint64 {
	return ef.Access(i+1) - ef.Access(i)
}

// searchGeq returns the smallest rank r such that Access(r) >= x, and
// whether such a rank exists. The high-bucket's starting rank is found via
// the select-0 index over the unary-coded high bits, then a short linear
// scan resolves the exact position within that bucket.
func (ef *EliasFano) searchGeq(x uint64) (uint64, bool) {
	high := x >> ef.l
	var start uint64
	if high > 0 {
		start = ef.highD0.Select(ef.high, high-1) + 1
	}
	rank := start - high // number of set bits before start == candidate index
	for rank < ef.n {
		if ef.Access(rank) >= x {
			return rank, true
		}
		rank++
	}
	return ef.n, false
}

// NextGeq returns the smallest encoded value >= x, and whether one exists.
// Requires the index to have been built with indexZeros.
func (ef *EliasFano) NextGeq(x uint64) (uint64, bool) {
	if ef.highD0 == nil {
		panic("EliasFano.NextGeq: requires indexZeros")
	}
	rank, ok := ef.searchGeq(x)
	if !ok {
		return 0, false
	}
	return ef.Access(rank), true
}

// PrevLeq returns the largest encoded value <= x, and whether one exists.
// Requires the index to have been built with indexZeros.
func (ef *EliasFano) PrevLeq(x uint64) (uint64, bool) {
	if ef.highD0 == nil {
		panic("EliasFano.PrevLeq: requires indexZeros")
	}
	rank, ok := ef.searchGeq(x)
	if ok && ef.Access(rank) == x {
		return x, true
	}
	if rank == 0 {
		return 0, false
	}
	return ef.Access(rank - 1), true
}

// MarshalBinary implements encoding.BinaryMarshaler per §6's EliasFano
// grammar: back, high_bits, high_bits_d1, high_bits_d0 (present even when
// empty), low_bits.
func (ef *EliasFano) MarshalBinary() ([]byte, error) {
	w := serial.NewWriter()
	ef.WriteTo(w)
	return w.Bytes(), nil
}

// WriteTo writes this EliasFano's fields into a shared Writer.
func (ef *EliasFano) WriteTo(w *serial.Writer) {
	w.WriteU64(ef.back)
	ef.high.WriteTo(w)
	ef.highD1.WriteTo(w)
	if ef.highD0 != nil {
		ef.highD0.WriteTo(w)
	} else {
		(&Darray{}).WriteTo(w)
	}
	ef.low.WriteTo(w)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. indexZeros and
// encodePrefixSum are not part of the wire grammar (§6) and must be set by
// the caller afterward via SetFlags, matching how the pilot/free-slot
// callers know statically which variant they're reading.
func (ef *EliasFano) UnmarshalBinary(data []byte) error {
	return ef.ReadFrom(serial.NewReader(data))
}

// ReadFrom reads this EliasFano's fields from a shared Reader.
func (ef *EliasFano) ReadFrom(r *serial.Reader) error {
	back, err := r.ReadU64()
	if err != nil {
		return ErrShortRead
	}
	high := &BitVector{}
	if err := high.ReadFrom(r); err != nil {
		return err
	}
	highD1 := &Darray{}
	if err := highD1.ReadFrom(r); err != nil {
		return err
	}
	highD0 := &Darray{}
	if err := highD0.ReadFrom(r); err != nil {
		return err
	}
	low := &CompactVector{}
	if err := low.ReadFrom(r); err != nil {
		return err
	}

	ef.back = back
	ef.high = high
	ef.highD1 = highD1
	ef.low = low
	ef.n = low.Size()
	ef.l = low.Width()
	if highD0.NumPositions() > 0 {
		highD0.selectZeros = true
		ef.highD0 = highD0
	} else {
		ef.highD0 = nil
	}
	return nil
}

// SetFlags restores the indexZeros/encodePrefixSum mode after ReadFrom,
// since the wire format doesn't carry them (§9).
func (ef *EliasFano) SetFlags(indexZeros, encodePrefixSum bool) {
	ef.indexZeros = indexZeros
	ef.encodePrefixSum = encodePrefixSum
	if indexZeros && ef.highD0 != nil {
		ef.highD0.selectZeros = true
	}
}
