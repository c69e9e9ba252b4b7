// Package serial provides the little-endian binary framing shared by every
// on-disk structure: length-prefixed vectors of fixed-width elements, and a
// reflective dispatch onto encoding.BinaryMarshaler/BinaryUnmarshaler so
// container types can serialize their fields without hand-rolling offsets.
package serial

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"io"
	"reflect"
)

// TryMarshal attempts to marshal an object if it implements BinaryMarshaler.
// It handles both pointer and value receiver implementations.
func TryMarshal(v interface{}) ([]byte, error) {
	if marshaler, ok := v.(encoding.BinaryMarshaler); ok {
		return marshaler.MarshalBinary()
	}

	pv := reflect.ValueOf(v)
	if pv.CanAddr() {
		if marshaler, ok := pv.Addr().Interface().(encoding.BinaryMarshaler); ok {
			return marshaler.MarshalBinary()
		}
	}

	return nil, fmt.Errorf("type %T (or pointer) does not implement encoding.BinaryMarshaler", v)
}

// TryUnmarshal attempts to unmarshal data into a pointer if it implements BinaryUnmarshaler.
// v must be a non-nil pointer to the target object (e.g., &myStruct).
func TryUnmarshal(v interface{}, data []byte) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("TryUnmarshal target must be a non-nil pointer, got %T", v)
	}

	if unmarshaler, ok := v.(encoding.BinaryUnmarshaler); ok {
		return unmarshaler.UnmarshalBinary(data)
	}

	return fmt.Errorf("type %T does not implement encoding.BinaryUnmarshaler", v)
}

// Writer accumulates little-endian fields into a growable byte buffer using
// the u64-count-prefixed vector grammar shared by every on-disk structure.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteU64 appends a little-endian uint64.
func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteI64 appends a little-endian int64.
func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

// WriteU16 appends a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteU128 appends a 128-bit value as (high, low) u64 limbs, matching the
// PHF container's M_128/M_dense/M_sparse fields.
func (w *Writer) WriteU128(high, low uint64) {
	w.WriteU64(high)
	w.WriteU64(low)
}

// WriteRaw appends raw bytes with no framing.
func (w *Writer) WriteRaw(b []byte) { w.buf = append(w.buf, b...) }

// WriteU64Vec writes the u64-count-prefixed vector grammar for a []uint64.
func (w *Writer) WriteU64Vec(v []uint64) {
	w.WriteU64(uint64(len(v)))
	for _, x := range v {
		w.WriteU64(x)
	}
}

// WriteI64Vec writes the u64-count-prefixed vector grammar for a []int64.
func (w *Writer) WriteI64Vec(v []int64) {
	w.WriteU64(uint64(len(v)))
	for _, x := range v {
		w.WriteI64(x)
	}
}

// WriteU16Vec writes the u64-count-prefixed vector grammar for a []uint16.
func (w *Writer) WriteU16Vec(v []uint16) {
	w.WriteU64(uint64(len(v)))
	for _, x := range v {
		w.WriteU16(x)
	}
}

// Reader consumes fields from a byte slice in the same order Writer wrote
// them, returning io.ErrUnexpectedEOF (wrapped as ShortRead by callers) the
// moment a declared count is not satisfied.
type Reader struct {
	buf []byte
	off int
}

// NewReader wraps data for sequential reading.
func NewReader(data []byte) *Reader { return &Reader{buf: data} }

// Off returns the current read offset (for reporting how much was consumed).
func (r *Reader) Off() int { return r.off }

// Remaining returns the unread tail of the buffer.
func (r *Reader) Remaining() []byte { return r.buf[r.off:] }

func (r *Reader) need(n int) error {
	if r.off+n > len(r.buf) {
		return io.ErrUnexpectedEOF
	}
	return nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off : r.off+8])
	r.off += 8
	return v, nil
}

// ReadI64 reads a little-endian int64.
func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.off : r.off+2])
	r.off += 2
	return v, nil
}

// ReadU128 reads a 128-bit value stored as (high, low) u64 limbs.
func (r *Reader) ReadU128() (high, low uint64, err error) {
	if high, err = r.ReadU64(); err != nil {
		return
	}
	low, err = r.ReadU64()
	return
}

// ReadRaw consumes and returns exactly n raw bytes.
func (r *Reader) ReadRaw(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// ReadU64Vec reads a u64-count-prefixed vector of uint64.
func (r *Reader) ReadU64Vec() ([]uint64, error) {
	n, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	out := make([]uint64, n)
	for i := range out {
		if out[i], err = r.ReadU64(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadI64Vec reads a u64-count-prefixed vector of int64.
func (r *Reader) ReadI64Vec() ([]int64, error) {
	n, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	out := make([]int64, n)
	for i := range out {
		if out[i], err = r.ReadI64(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadU16Vec reads a u64-count-prefixed vector of uint16.
func (r *Reader) ReadU16Vec() ([]uint16, error) {
	n, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		if out[i], err = r.ReadU16(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
