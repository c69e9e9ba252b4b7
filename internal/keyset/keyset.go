// Package keyset validates a build-time key set before it reaches the pilot
// search: PTHash's minimality guarantee only holds over a set of genuinely
// distinct keys, so the builder must reject duplicates up front rather than
// let them silently manifest as an unsolvable bucket collision deep inside
// the pilot search.
//
// Duplicate detection uses xxHash rather than the query path's
// MurmurHash2-64A (§4.8 pins that hash to the query driver only), grounded
// on the teacher's own use of cespare/xxhash as its auxiliary hasher
// (pthash-go/internal/core/hasher.go's XXHash128Hasher).
package keyset

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// DuplicateKeyError reports the first duplicate key found by CheckDistinct.
type DuplicateKeyError struct {
	Key uint64
}

func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("keyset: duplicate key %d", e.Key)
}

// CheckDistinct returns a DuplicateKeyError if keys contains any repeated
// value. Keys are hashed with xxHash into a map keyed by hash first so the
// common case (large, genuinely distinct key sets) does an O(n) pass over
// 64-bit hashes before falling back to an exact comparison on collision.
func CheckDistinct(keys []uint64) error {
	seenHashes := make(map[uint64][]uint64, len(keys))
	for _, k := range keys {
		h := Hash64(k)
		bucket := seenHashes[h]
		for _, existing := range bucket {
			if existing == k {
				return DuplicateKeyError{Key: k}
			}
		}
		seenHashes[h] = append(bucket, k)
	}
	return nil
}

// Hash64 computes the xxHash64 digest of an 8-byte little-endian key.
func Hash64(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return xxhash.Sum64(buf[:])
}
