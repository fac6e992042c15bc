package bloom

import (
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// hashPair computes the two 64-bit base hashes for an element.
//
// The two algorithms are structurally different on purpose: murmur3
// (x64-128 variant, first half) and xxHash64 share no internal
// structure, so their collisions are uncorrelated and the double-hashed
// position sequence behaves like independent hash functions. Both run
// at their fixed default seed of 0, which keeps the mapping stable
// across processes and makes every derived position reproducible.
func hashPair(element []byte) (h1, h2 uint64) {
	h1, _ = murmur3.Sum128(element)
	h2 = xxhash.Sum64(element)
	return h1, h2
}

// position derives the bit position for one round using the
// Kirsch-Mitzenmacher double-hashing scheme: g_j(x) = h1 + j*h2 mod m.
// Rounds are 1-based so the first probe already mixes h2 in. The
// addition and multiplication wrap on uint64 overflow, which is
// harmless under the final modulo reduction.
func position(h1, h2, round, m uint64) uint64 {
	return (h1 + round*h2) % m
}
