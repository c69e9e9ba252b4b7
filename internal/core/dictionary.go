package core

import (
	"math/bits"
	"sort"

	"github.com/aelaguiz/pthash-go/internal/serial"
)

// PilotEncoder is the capability interface the PHF driver queries for a
// per-bucket pilot value (§9's "small capability interfaces" note).
type PilotEncoder interface {
	Access(bucket uint64) uint64
}

// Dictionary is a dictionary-of-dictionaries pilot encoding: the distinct
// pilot values observed, deduplicated into dict, and one rank per bucket
// into dict (§4.5). pilots.Access(b) == dict.Access(ranks.Access(b)).
type Dictionary struct {
	dict  *CompactVector
	ranks *CompactVector
}

// BuildDictionary deduplicates pilots into a Dictionary.
func BuildDictionary(pilots []uint64) *Dictionary {
	distinct := append([]uint64(nil), pilots...)
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })
	distinct = dedupSorted(distinct)

	rankOf := make(map[uint64]uint64, len(distinct))
	for i, v := range distinct {
		rankOf[v] = uint64(i)
	}

	dictWidth := widthFor(maxOrZero(distinct))
	dict := NewCompactVector(uint64(len(distinct)), dictWidth)
	for i, v := range distinct {
		dict.Set(uint64(i), v)
	}

	maxRank := uint64(0)
	if len(distinct) > 0 {
		maxRank = uint64(len(distinct) - 1)
	}
	rankWidth := widthFor(maxRank)
	ranks := NewCompactVector(uint64(len(pilots)), rankWidth)
	for b, p := range pilots {
		ranks.Set(uint64(b), rankOf[p])
	}

	return &Dictionary{dict: dict, ranks: ranks}
}

func dedupSorted(v []uint64) []uint64 {
	if len(v) == 0 {
		return v
	}
	out := v[:1]
	for _, x := range v[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

func maxOrZero(v []uint64) uint64 {
	if len(v) == 0 {
		return 0
	}
	return v[len(v)-1]
}

func widthFor(maxVal uint64) uint8 {
	if maxVal == 0 {
		return 1
	}
	return uint8(bits.Len64(maxVal))
}

// Access returns the pilot for bucket b.
func (d *Dictionary) Access(b uint64) uint64 {
	return d.dict.Access(d.ranks.Access(b))
}

// Size returns the number of buckets this dictionary covers.
func (d *Dictionary) Size() uint64 { return d.ranks.Size() }

// MarshalBinary implements encoding.BinaryMarshaler: ranks then dict (§6).
func (d *Dictionary) MarshalBinary() ([]byte, error) {
	w := serial.NewWriter()
	d.WriteTo(w)
	return w.Bytes(), nil
}

// WriteTo writes ranks then dict into a shared Writer, per §6's Dictionary grammar.
func (d *Dictionary) WriteTo(w *serial.Writer) {
	d.ranks.WriteTo(w)
	d.dict.WriteTo(w)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Dictionary) UnmarshalBinary(data []byte) error {
	return d.ReadFrom(serial.NewReader(data))
}

// ReadFrom reads ranks then dict from a shared Reader.
func (d *Dictionary) ReadFrom(r *serial.Reader) error {
	d.ranks = &CompactVector{}
	if err := d.ranks.ReadFrom(r); err != nil {
		return err
	}
	d.dict = &CompactVector{}
	return d.dict.ReadFrom(r)
}

// DualDictionary routes bucket access to one of two Dictionary halves, split
// at a build-chosen index (§4.5).
type DualDictionary struct {
	front *Dictionary
	back  *Dictionary
}

// BuildDualDictionary splits pilots at splitPoint and dictionary-encodes each half.
func BuildDualDictionary(pilots []uint64, splitPoint uint64) *DualDictionary {
	return &DualDictionary{
		front: BuildDictionary(pilots[:splitPoint]),
		back:  BuildDictionary(pilots[splitPoint:]),
	}
}

// Access returns the pilot for bucket b.
func (dd *DualDictionary) Access(b uint64) uint64 {
	if b < dd.front.Size() {
		return dd.front.Access(b)
	}
	return dd.back.Access(b - dd.front.Size())
}

// NumBuckets returns the total number of buckets covered.
func (dd *DualDictionary) NumBuckets() uint64 {
	return dd.front.Size() + dd.back.Size()
}

// MarshalBinary implements encoding.BinaryMarshaler: front then back.
func (dd *DualDictionary) MarshalBinary() ([]byte, error) {
	w := serial.NewWriter()
	dd.WriteTo(w)
	return w.Bytes(), nil
}

// WriteTo writes front then back into a shared Writer.
func (dd *DualDictionary) WriteTo(w *serial.Writer) {
	dd.front.WriteTo(w)
	dd.back.WriteTo(w)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (dd *DualDictionary) UnmarshalBinary(data []byte) error {
	return dd.ReadFrom(serial.NewReader(data))
}

// ReadFrom reads front then back from a shared Reader.
func (dd *DualDictionary) ReadFrom(r *serial.Reader) error {
	dd.front = &Dictionary{}
	if err := dd.front.ReadFrom(r); err != nil {
		return err
	}
	dd.back = &Dictionary{}
	return dd.back.ReadFrom(r)
}
