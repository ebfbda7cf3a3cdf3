package utils

import "hash/fnv"

// U64 hashes a string with FNV-1a.
func U64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Mix64 folds b into the running hash a.
func Mix64(a, b uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(U64ToBytes(a))
	_, _ = h.Write(U64ToBytes(b))
	return h.Sum64()
}

// MixString folds the hash of s into a.
func MixString(a uint64, s string) uint64 {
	return Mix64(a, U64(s))
}

// MixStrings folds every element of ss into a, length first so that
// ["a,b"] and ["a", "b"] never collide.
func MixStrings(a uint64, ss []string) uint64 {
	a = Mix64(a, uint64(len(ss)))
	for _, s := range ss {
		a = MixString(a, s)
	}
	return a
}

func U64ToBytes(u uint64) []byte {
	return []byte{
		byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32),
		byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u),
	}
}
