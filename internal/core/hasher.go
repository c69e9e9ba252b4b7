package core

import "encoding/binary"

// murmurHash64A is MurmurHash2-64A (Austin Appleby), the hash the query
// driver is pinned to (§4.8).
func murmurHash64A(key []byte, seed uint64) uint64 {
	const m = uint64(0xc6a4a7935bd1e995)
	const r = 47

	h := seed ^ (uint64(len(key)) * m)

	n := len(key) / 8
	for i := 0; i < n; i++ {
		k := binary.LittleEndian.Uint64(key[i*8 : i*8+8])
		k *= m
		k ^= k >> r
		k *= m
		h ^= k
		h *= m
	}

	tail := key[n*8:]
	switch len(tail) {
	case 7:
		h ^= uint64(tail[6]) << 48
		fallthrough
	case 6:
		h ^= uint64(tail[5]) << 40
		fallthrough
	case 5:
		h ^= uint64(tail[4]) << 32
		fallthrough
	case 4:
		h ^= uint64(tail[3]) << 24
		fallthrough
	case 3:
		h ^= uint64(tail[2]) << 16
		fallthrough
	case 2:
		h ^= uint64(tail[1]) << 8
		fallthrough
	case 1:
		h ^= uint64(tail[0])
		h *= m
	}

	h ^= h >> r
	h *= m
	h ^= h >> r
	return h
}

// HashU64 hashes an 8-byte little-endian key with MurmurHash2-64A and
// doubles the single 64-bit result into a 128-bit pair (h, h), per §4.8: the
// bucketing half and the displacement half are equal.
func HashU64(key uint64, seed uint64) Hash128 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	h := murmurHash64A(buf[:], seed)
	return Hash128{High: h, Low: h}
}

// HashBytes hashes an arbitrary byte-string key the same way as HashU64.
func HashBytes(key []byte, seed uint64) Hash128 {
	h := murmurHash64A(key, seed)
	return Hash128{High: h, Low: h}
}

// DefaultHash64 mixes (val, seed) into a single 64-bit hash; it is the
// producer's pilot-to-hashedPilot finalizer used by xor_displacement (§4.9).
func DefaultHash64(val, seed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], val)
	return murmurHash64A(buf[:], seed)
}

// Mix64 is a splitmix64-style finalizer used by add_displacement (§4.9).
func Mix64(h uint64) uint64 {
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}
