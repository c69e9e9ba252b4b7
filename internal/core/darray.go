package core

import (
	"math/bits"

	"github.com/aelaguiz/pthash-go/internal/serial"
)

// Darray parameters (§4.3 / GLOSSARY): L is the super-block size in indexed
// bits, L2 is the sparse-block span threshold, L3 is the sub-block stride.
const (
	darrayL  = 1024
	darrayL2 = 65536
	darrayL3 = 32
)

const sparseSentinel = uint16(0xFFFF)

// Darray is a select index over a BitVector, built once at load time and
// queried by EliasFano to locate the i-th set (or, for Darray0, unset) bit.
// block_inventory[b] >= 0 marks a dense block whose value is the absolute
// position of its first indexed bit; < 0 marks a sparse block whose
// overflow start is -block_inventory[b]-1.
type Darray struct {
	positions          uint64
	blockInventory     []int64
	subblockInventory  []uint16
	overflowPositions  []uint64
	selectZeros        bool // Darray0 selects 0-bits instead of 1-bits
}

// NewDarray builds a select-1 index over bv.
func NewDarray(bv *BitVector) *Darray {
	return buildDarray(bv, false)
}

// NewDarray0 builds a select-0 index over bv.
func NewDarray0(bv *BitVector) *Darray {
	return buildDarray(bv, true)
}

func buildDarray(bv *BitVector, zeros bool) *Darray {
	d := &Darray{selectZeros: zeros}
	var positions []uint64
	if zeros {
		positions = onesOfComplement(bv)
	} else {
		positions = bv.Ones()
	}
	d.positions = uint64(len(positions))

	for start := 0; start < len(positions); start += darrayL {
		end := start + darrayL
		if end > len(positions) {
			end = len(positions)
		}
		block := positions[start:end]
		d.flushBlock(block)
	}
	return d
}

func onesOfComplement(bv *BitVector) []uint64 {
	var out []uint64
	for i := uint64(0); i < bv.Size(); i++ {
		if !bv.Get(i) {
			out = append(out, i)
		}
	}
	return out
}

// flushBlock appends one super-block's worth (<=L positions) to the inventory.
func (d *Darray) flushBlock(block []uint64) {
	if len(block) == 0 {
		return
	}
	span := block[len(block)-1] - block[0]
	if span >= darrayL2 {
		// Sparse: verbatim positions, subblocks are unused sentinels.
		d.blockInventory = append(d.blockInventory, -int64(len(d.overflowPositions))-1)
		d.overflowPositions = append(d.overflowPositions, block...)
		for k := 0; k < darrayL/darrayL3; k++ {
			d.subblockInventory = append(d.subblockInventory, sparseSentinel)
		}
		return
	}
	// Dense: record the block's first position, then per-subblock offsets.
	d.blockInventory = append(d.blockInventory, int64(block[0]))
	for k := 0; k < darrayL/darrayL3; k++ {
		idx := k * darrayL3
		if idx >= len(block) {
			// Last, partially-filled block: clamp to its final position.
			idx = len(block) - 1
		}
		d.subblockInventory = append(d.subblockInventory, uint16(block[idx]-block[0]))
	}
}

// selectInWord returns the position of the (k+1)-th set bit of w, 0-indexed.
// Broadword binary search over popcount of successively smaller masks.
func selectInWord(w uint64, k uint8) uint8 {
	var pos uint8
	for _, size := range [...]uint8{32, 16, 8, 4, 2, 1} {
		mask := (uint64(1) << size) - 1
		cnt := uint8(bits.OnesCount64(w & mask))
		if cnt <= k {
			k -= cnt
			w >>= size
			pos += size
		}
	}
	return pos
}

// Select returns the position of the (i+1)-th indexed bit of bv (§4.3).
func (d *Darray) Select(bv *BitVector, i uint64) uint64 {
	b := i / darrayL
	bp := d.blockInventory[b]
	if bp < 0 {
		return d.overflowPositions[uint64(-bp-1)+i%darrayL]
	}
	sb := i / darrayL3
	start := uint64(bp) + uint64(d.subblockInventory[sb])
	r := i % darrayL3
	if r == 0 {
		return start
	}

	words := bv.Words()
	wordIdx := start >> 6
	word := words[wordIdx] & (^uint64(0) << (start & 63))
	if d.selectZeros {
		word = ^words[wordIdx] & (^uint64(0) << (start & 63))
	}
	for {
		cnt := uint64(bits.OnesCount64(word))
		if r < cnt {
			return (wordIdx << 6) + uint64(selectInWord(word, uint8(r)))
		}
		r -= cnt
		wordIdx++
		if wordIdx >= uint64(len(words)) {
			panic(CorruptSelect{Msg: "darray select scan advanced past end of bit vector"})
		}
		word = words[wordIdx]
		if d.selectZeros {
			word = ^word
		}
	}
}

// NumPositions returns the number of indexed bits.
func (d *Darray) NumPositions() uint64 { return d.positions }

// MarshalBinary implements encoding.BinaryMarshaler per §6's Darray grammar.
func (d *Darray) MarshalBinary() ([]byte, error) {
	w := serial.NewWriter()
	d.WriteTo(w)
	return w.Bytes(), nil
}

// WriteTo writes this darray's fields into a shared Writer.
func (d *Darray) WriteTo(w *serial.Writer) {
	w.WriteU64(d.positions)
	w.WriteI64Vec(d.blockInventory)
	w.WriteU16Vec(d.subblockInventory)
	w.WriteU64Vec(d.overflowPositions)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Darray) UnmarshalBinary(data []byte) error {
	return d.ReadFrom(serial.NewReader(data))
}

// ReadFrom reads this darray's fields from a shared Reader.
func (d *Darray) ReadFrom(r *serial.Reader) error {
	positions, err := r.ReadU64()
	if err != nil {
		return ErrShortRead
	}
	blockInv, err := r.ReadI64Vec()
	if err != nil {
		return ErrShortRead
	}
	subblockInv, err := r.ReadU16Vec()
	if err != nil {
		return ErrShortRead
	}
	overflow, err := r.ReadU64Vec()
	if err != nil {
		return ErrShortRead
	}
	d.positions = positions
	d.blockInventory = blockInv
	d.subblockInventory = subblockInv
	d.overflowPositions = overflow
	return nil
}
