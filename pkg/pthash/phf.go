// Package pthash implements the query-time core of a static minimal perfect
// hash function following the PTHash family design (§1, §4.9): a two-level
// hash-and-displace construction over a skew bucketer, dictionary-encoded
// pilots, and an Elias-Fano free-slot remap table.
package pthash

import (
	"fmt"

	"github.com/aelaguiz/pthash-go/internal/core"
	"github.com/aelaguiz/pthash-go/internal/serial"
)

// PHF is an immutable, minimal perfect hash function over a fixed key set.
// All state is read-only after Load/Build; Lookup is safe for concurrent use
// by any number of goroutines without synchronization (§5).
type PHF struct {
	seed      uint64
	numKeys   uint64
	tableSize uint64
	m128      core.M64
	m64       core.M32
	search    core.SearchType
	minimal   bool
	bucketer  *core.SkewBucketer
	pilots    *core.DualDictionary
	freeSlots *core.EliasFano
}

// Lookup maps key to a value in [0, num_keys) for a minimal PHF, or to its
// raw position in [0, table_size) otherwise (§4.9). For keys outside the
// set the function is total but the returned value is unspecified.
func (p *PHF) Lookup(key uint64) uint64 {
	h := core.HashU64(key, p.seed)
	b := p.bucketer.Bucket(h.High)
	pilot := p.pilots.Access(uint64(b))

	var pos uint64
	switch p.search {
	case core.SearchTypeAdd:
		s := core.FastDivU32(uint32(pilot), p.m64)
		m := core.Mix64(h.Low + uint64(s))
		sum := (m >> 33) + pilot
		pos = uint64(core.FastModU32(uint32(sum), p.m64, uint32(p.tableSize)))
	default: // SearchTypeXOR
		hp := core.DefaultHash64(pilot, p.seed)
		pos = core.FastModU64(h.Low^hp, p.m128, p.tableSize)
	}

	if p.minimal && pos >= p.numKeys {
		return p.freeSlots.Access(pos - p.numKeys)
	}
	return pos
}

// NumKeys returns n, the size of the encoded key set.
func (p *PHF) NumKeys() uint64 { return p.numKeys }

// TableSize returns the raw table size (>= NumKeys; equal for a perfectly
// dense minimal encoding only when free_slots is empty).
func (p *PHF) TableSize() uint64 { return p.tableSize }

// MarshalBinary implements encoding.BinaryMarshaler per §6's PHF container grammar.
func (p *PHF) MarshalBinary() ([]byte, error) {
	w := serial.NewWriter()
	w.WriteU64(p.seed)
	w.WriteU64(p.numKeys)
	w.WriteU64(p.tableSize)
	w.WriteU128(p.m128.High, p.m128.Low)
	w.WriteU64(uint64(p.m64))
	p.bucketer.WriteTo(w)
	p.pilots.WriteTo(w)
	p.freeSlots.WriteTo(w)
	return w.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. search and minimal
// are not carried on the wire (§6 lists no such field): callers load a PHF
// knowing which displacement variant and minimality it was built with, the
// same way the producer's own loader is parameterized by template argument.
// UnmarshalBinary assumes xor displacement and a minimal PHF; Load takes
// both as arguments.
func (p *PHF) UnmarshalBinary(data []byte) error {
	return p.load(serial.NewReader(data), core.SearchTypeXOR, true)
}

// Load deserializes a PHF built with the given search variant and
// minimality flag (§7: all load errors are fatal, no partial state exposed).
func Load(data []byte, search core.SearchType, minimal bool) (*PHF, error) {
	p := &PHF{}
	if err := p.load(serial.NewReader(data), search, minimal); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PHF) load(r *serial.Reader, search core.SearchType, minimal bool) error {
	seed, err := r.ReadU64()
	if err != nil {
		return core.ErrShortRead
	}
	numKeys, err := r.ReadU64()
	if err != nil {
		return core.ErrShortRead
	}
	tableSize, err := r.ReadU64()
	if err != nil {
		return core.ErrShortRead
	}
	mh, ml, err := r.ReadU128()
	if err != nil {
		return core.ErrShortRead
	}
	m64, err := r.ReadU64()
	if err != nil {
		return core.ErrShortRead
	}

	bucketer := &core.SkewBucketer{}
	if err := bucketer.ReadFrom(r); err != nil {
		return err
	}
	pilots := &core.DualDictionary{}
	if err := pilots.ReadFrom(r); err != nil {
		return err
	}
	if pilots.NumBuckets() != bucketer.NumBuckets() {
		return core.InvariantViolation{Msg: "pilot encoder bucket count does not match bucketer"}
	}
	freeSlots := &core.EliasFano{}
	if err := freeSlots.ReadFrom(r); err != nil {
		return err
	}
	freeSlots.SetFlags(true, false)

	if minimal {
		want := tableSize - numKeys
		if freeSlots.Size() != want {
			return core.InvariantViolation{Msg: fmt.Sprintf("free_slots size %d != table_size-num_keys %d", freeSlots.Size(), want)}
		}
	}

	p.seed = seed
	p.numKeys = numKeys
	p.tableSize = tableSize
	p.m128 = core.M64{High: mh, Low: ml}
	p.m64 = core.M32(m64)
	p.search = search
	p.minimal = minimal
	p.bucketer = bucketer
	p.pilots = pilots
	p.freeSlots = freeSlots
	return nil
}
