package core

import (
	"math/bits"

	"github.com/aelaguiz/pthash-go/internal/serial"
)

// BitVector is a packed sequence of bits stored little-endian within 64-bit
// words: word i holds bits [64i, 64i+64), bit j at shift j&63.
type BitVector struct {
	bits []uint64
	size uint64
}

// NewBitVector creates a zero-initialized bit vector of the given size.
func NewBitVector(size uint64) *BitVector {
	return &BitVector{
		bits: make([]uint64, (size+63)/64),
		size: size,
	}
}

// Size returns the number of bits the vector conceptually holds.
func (bv *BitVector) Size() uint64 { return bv.size }

// NumBits is an alias for Size, matching spec naming.
func (bv *BitVector) NumBits() uint64 { return bv.size }

// Set sets the bit at pos to 1.
func (bv *BitVector) Set(pos uint64) {
	if pos >= bv.size {
		panic("BitVector.Set: position out of bounds")
	}
	bv.bits[pos>>6] |= uint64(1) << (pos & 63)
}

// Unset sets the bit at pos to 0.
func (bv *BitVector) Unset(pos uint64) {
	if pos >= bv.size {
		panic("BitVector.Unset: position out of bounds")
	}
	bv.bits[pos>>6] &^= uint64(1) << (pos & 63)
}

// Get returns the bit at pos.
func (bv *BitVector) Get(pos uint64) bool {
	if pos >= bv.size {
		panic("BitVector.Get: position out of bounds")
	}
	return (bv.bits[pos>>6]>>(pos&63))&1 != 0
}

// NumWords returns the number of 64-bit words backing the vector.
func (bv *BitVector) NumWords() int { return len(bv.bits) }

// Words returns the underlying word slice.
func (bv *BitVector) Words() []uint64 { return bv.bits }

// Ones returns the absolute positions of every set bit, in ascending order.
// Used by darray construction.
func (bv *BitVector) Ones() []uint64 {
	var out []uint64
	for w, word := range bv.bits {
		for word != 0 {
			t := bits.TrailingZeros64(word)
			out = append(out, uint64(w)*64+uint64(t))
			word &= word - 1
		}
	}
	return out
}

// MarshalBinary implements encoding.BinaryMarshaler: u64 num_bits, then the
// word array as a u64-count-prefixed vector (§6).
func (bv *BitVector) MarshalBinary() ([]byte, error) {
	w := serial.NewWriter()
	bv.WriteTo(w)
	return w.Bytes(), nil
}

// WriteTo writes this bit vector's fields into a shared Writer.
func (bv *BitVector) WriteTo(w *serial.Writer) {
	w.WriteU64(bv.size)
	w.WriteU64Vec(bv.bits)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (bv *BitVector) UnmarshalBinary(data []byte) error {
	return bv.ReadFrom(serial.NewReader(data))
}

// ReadFrom reads this bit vector's fields from a shared Reader.
func (bv *BitVector) ReadFrom(r *serial.Reader) error {
	size, err := r.ReadU64()
	if err != nil {
		return ErrShortRead
	}
	words, err := r.ReadU64Vec()
	if err != nil {
		return ErrShortRead
	}
	if size > uint64(len(words))*64 {
		return InvariantViolation{Msg: "BitVector: num_bits exceeds word capacity"}
	}
	bv.size = size
	bv.bits = words
	return nil
}

// BitVectorBuilder incrementally constructs a BitVector, growing its backing
// storage as needed. Used only at build time.
type BitVectorBuilder struct {
	words []uint64
	size  uint64
}

// NewBitVectorBuilder creates a builder, optionally reserving capacity in bits.
func NewBitVectorBuilder(initialCapacity uint64) *BitVectorBuilder {
	return &BitVectorBuilder{
		words: make([]uint64, (initialCapacity+63)/64),
	}
}

func (b *BitVectorBuilder) grow(targetBitIndex uint64) {
	needWords := targetBitIndex/64 + 1
	if uint64(len(b.words)) >= needWords {
		return
	}
	newWords := make([]uint64, needWords)
	copy(newWords, b.words)
	b.words = newWords
}

// Get returns the bit value at pos, treating unset/ungrown positions as 0.
func (b *BitVectorBuilder) Get(pos uint64) bool {
	if pos/64 >= uint64(len(b.words)) {
		return false
	}
	return (b.words[pos/64]>>(pos%64))&1 != 0
}

// Set sets the bit at pos to 1, growing storage and the conceptual size as needed.
func (b *BitVectorBuilder) Set(pos uint64) {
	b.grow(pos)
	b.words[pos/64] |= uint64(1) << (pos % 64)
	if pos >= b.size {
		b.size = pos + 1
	}
}

// PushBack appends a single bit.
func (b *BitVectorBuilder) PushBack(bit bool) {
	b.grow(b.size)
	if bit {
		b.words[b.size/64] |= uint64(1) << (b.size % 64)
	} else {
		b.words[b.size/64] &^= uint64(1) << (b.size % 64)
	}
	b.size++
}

// AppendBits appends the lowest numBits of val.
func (b *BitVectorBuilder) AppendBits(val uint64, numBits uint8) {
	if numBits == 0 {
		return
	}
	if numBits > 64 {
		panic("BitVectorBuilder.AppendBits: numBits must be <= 64")
	}
	b.grow(b.size + uint64(numBits) - 1)
	if numBits < 64 {
		val &= (uint64(1) << numBits) - 1
	}
	startBit := b.size % 64
	wordIndex := b.size / 64
	b.words[wordIndex] |= val << startBit
	bitsWrittenInFirst := 64 - startBit
	if uint64(numBits) > bitsWrittenInFirst {
		b.words[wordIndex+1] |= val >> bitsWrittenInFirst
	}
	b.size += uint64(numBits)
}

// Size returns the current conceptual size in bits.
func (b *BitVectorBuilder) Size() uint64 { return b.size }

// Build finalizes the BitVector, trimming any over-allocated tail words.
func (b *BitVectorBuilder) Build() *BitVector {
	numWords := (b.size + 63) / 64
	finalBits := make([]uint64, numWords)
	copy(finalBits, b.words[:numWords])
	return &BitVector{bits: finalBits, size: b.size}
}
