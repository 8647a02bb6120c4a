package hash

import "github.com/cespare/xxhash/v2"

// Bytes computes the xxHash64 of a raw key.
func Bytes(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// String computes the xxHash64 of key. It equals Bytes([]byte(key)).
func String(key string) uint64 {
	return xxhash.Sum64String(key)
}
