package core

import (
	"fmt"

	"github.com/aelaguiz/pthash-go/internal/serial"
)

// CompactVector stores size elements of width w bits, each occupying the
// contiguous bit range [i*w, (i+1)*w) of a packed word array. One extra word
// beyond the strictly necessary count is always allocated so a multi-word
// access never touches out-of-bounds memory.
type CompactVector struct {
	data  []uint64
	width uint8
	size  uint64
	mask  uint64
}

func maskFor(w uint8) uint64 {
	switch {
	case w == 0:
		return 0
	case w >= 64:
		return ^uint64(0)
	default:
		return (uint64(1) << w) - 1
	}
}

// NewCompactVector allocates a CompactVector holding n elements of width w bits.
func NewCompactVector(n uint64, w uint8) *CompactVector {
	if w > 64 {
		panic("CompactVector: width must be <= 64 bits")
	}
	totalBits := n * uint64(w)
	numWords := (totalBits+63)/64 + 1 // spare tail word, per §3
	return &CompactVector{
		data:  make([]uint64, numWords),
		width: w,
		size:  n,
		mask:  maskFor(w),
	}
}

// Access retrieves the value at index i, handling the split-word case per §4.2.
func (cv *CompactVector) Access(i uint64) uint64 {
	if i >= cv.size {
		panic(fmt.Sprintf("CompactVector.Access: index %d out of bounds (%d)", i, cv.size))
	}
	if cv.width == 0 {
		return 0
	}
	pos := i * uint64(cv.width)
	block := pos >> 6
	shift := pos & 63
	if shift+uint64(cv.width) <= 64 {
		return (cv.data[block] >> shift) & cv.mask
	}
	return (cv.data[block] >> shift) | ((cv.data[block+1] << (64 - shift)) & cv.mask)
}

// Set stores val at index i.
func (cv *CompactVector) Set(i uint64, val uint64) {
	if i >= cv.size {
		panic(fmt.Sprintf("CompactVector.Set: index %d out of bounds (%d)", i, cv.size))
	}
	if cv.width == 0 {
		if val != 0 {
			panic("CompactVector.Set: cannot store non-zero value with width 0")
		}
		return
	}
	if cv.width < 64 && (val>>cv.width) > 0 {
		panic(fmt.Sprintf("CompactVector.Set: value %d exceeds width %d", val, cv.width))
	}
	pos := i * uint64(cv.width)
	block := pos >> 6
	shift := pos & 63
	maskedVal := val & cv.mask

	cv.data[block] &^= cv.mask << shift
	cv.data[block] |= maskedVal << shift

	bitsInFirst := 64 - shift
	if bitsInFirst < uint64(cv.width) {
		bitsInSecond := uint64(cv.width) - bitsInFirst
		secondMask := (uint64(1) << bitsInSecond) - 1
		cv.data[block+1] &^= secondMask
		cv.data[block+1] |= maskedVal >> bitsInFirst
	}
}

// Iterator is a random-access cursor over a CompactVector's elements,
// carrying state (curBlock, curShift, curVal) across word boundaries the
// same way Access does, but amortizing the pos/block/shift computation
// across sequential reads instead of recomputing it from scratch each time
// (§4.2).
type Iterator struct {
	vec      *CompactVector
	i        uint64
	curBlock uint64
	curShift int64
	curVal   uint64
}

// Iter returns an Iterator positioned at index i (i may equal cv.Size() to
// build an end-of-range sentinel that HasNext reports as exhausted).
func (cv *CompactVector) Iter(i uint64) *Iterator {
	it := &Iterator{
		vec:      cv,
		i:        i,
		curBlock: (i * uint64(cv.width)) >> 6,
		curShift: int64((i * uint64(cv.width)) & 63),
	}
	if i < cv.size {
		it.read()
	}
	return it
}

// HasNext reports whether the iterator has another element to yield.
func (it *Iterator) HasNext() bool { return it.i < it.vec.size }

// Value returns the element at the iterator's current position without advancing.
func (it *Iterator) Value() uint64 { return it.curVal }

// Next returns the current value, then advances the cursor by one element,
// re-reading the next w bits and carrying across word boundaries exactly as
// Access does.
func (it *Iterator) Next() uint64 {
	v := it.curVal
	it.i++
	if it.i < it.vec.size {
		it.read()
	}
	return v
}

func (it *Iterator) read() {
	w := uint64(it.vec.width)
	block, shift := it.curBlock, uint64(it.curShift)
	if shift+w <= 64 {
		it.curVal = (it.vec.data[block] >> shift) & it.vec.mask
	} else {
		resShift := 64 - shift
		it.curVal = (it.vec.data[block] >> shift) | ((it.vec.data[block+1] << resShift) & it.vec.mask)
		it.curBlock++
		it.curShift = -int64(resShift)
	}
	it.curShift += int64(w)
	if it.curShift == 64 {
		it.curShift = 0
		it.curBlock++
	}
}

// Size returns the number of elements.
func (cv *CompactVector) Size() uint64 { return cv.size }

// Width returns the number of bits per element.
func (cv *CompactVector) Width() uint8 { return cv.width }

// MarshalBinary implements encoding.BinaryMarshaler: size, width, mask, then
// the packed word array as a u64-count-prefixed vector (§6).
func (cv *CompactVector) MarshalBinary() ([]byte, error) {
	w := serial.NewWriter()
	cv.WriteTo(w)
	return w.Bytes(), nil
}

// WriteTo writes this compact vector's fields into a shared Writer.
func (cv *CompactVector) WriteTo(w *serial.Writer) {
	w.WriteU64(cv.size)
	w.WriteU64(uint64(cv.width))
	w.WriteU64(cv.mask)
	w.WriteU64Vec(cv.data)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (cv *CompactVector) UnmarshalBinary(data []byte) error {
	return cv.ReadFrom(serial.NewReader(data))
}

// ReadFrom reads this compact vector's fields from a shared Reader.
func (cv *CompactVector) ReadFrom(r *serial.Reader) error {
	size, err := r.ReadU64()
	if err != nil {
		return ErrShortRead
	}
	widthU64, err := r.ReadU64()
	if err != nil {
		return ErrShortRead
	}
	if widthU64 > 64 {
		return InvariantViolation{Msg: fmt.Sprintf("CompactVector: width %d exceeds 64", widthU64)}
	}
	mask, err := r.ReadU64()
	if err != nil {
		return ErrShortRead
	}
	data, err := r.ReadU64Vec()
	if err != nil {
		return ErrShortRead
	}
	cv.size = size
	cv.width = uint8(widthU64)
	cv.mask = mask
	cv.data = data
	return nil
}

// CompactVectorBuilder incrementally constructs a CompactVector.
type CompactVectorBuilder struct {
	vector *CompactVector
}

// NewCompactVectorBuilder creates a builder for n elements of width w.
func NewCompactVectorBuilder(n uint64, w uint8) *CompactVectorBuilder {
	return &CompactVectorBuilder{vector: NewCompactVector(n, w)}
}

// Set sets the value at index i.
func (b *CompactVectorBuilder) Set(i uint64, v uint64) {
	if b.vector == nil {
		panic("CompactVectorBuilder.Set called after Build")
	}
	b.vector.Set(i, v)
}

// Build finalizes and returns the CompactVector. The builder becomes unusable.
func (b *CompactVectorBuilder) Build() *CompactVector {
	if b.vector == nil {
		panic("CompactVectorBuilder.Build called multiple times")
	}
	result := b.vector
	b.vector = nil
	return result
}
