// Package bloom implements a classic fixed-capacity Bloom filter.
//
// A Bloom filter answers set-membership queries probabilistically: a
// negative answer is definitive ("definitely not added"), a positive
// answer means "possibly added" with a false-positive probability the
// caller chooses at construction time. Memory is sublinear in the
// element domain and both operations run in O(k) where k is the derived
// hash-round count, independent of how many elements are stored.
//
// Sizing
// ======
//
// Given a capacity n and a target false-positive rate p, the filter
// derives its parameters with the standard optimal formulas:
//
//	m = ceil(-(n * ln p) / ln(2)^2)   bits in the array
//	k = ceil((m / n) * ln 2)          positions touched per element
//
// m is then rounded up to the next multiple of 64 so the backing bit
// array is word-aligned. Padding only ever adds bits, so the effective
// false-positive rate can only improve over the target.
//
// Hashing
// =======
//
// Instead of k independent hash functions, the filter computes two base
// hashes (murmur3 x64-128 and xxHash64, both seeded with 0) and derives
// all k positions via double hashing: g_j(x) = h1 + j*h2 mod m. This is
// the Kirsch-Mitzenmacher construction; it halves hash invocations with
// provably negligible impact on the false-positive rate.
//
// Concurrency
// ===========
//
// The filter performs no internal locking. Concurrent Contains calls
// with no concurrent Add are safe; any mix involving Add must be
// guarded by an external exclusive lock, or sharded across independent
// Filter instances. See the FilterStore in cmd/bloomd for the locking
// pattern.
//
// Deletion is unsupported: bits only ever transition from 0 to 1, which
// is precisely what makes the no-false-negative guarantee hold.
package bloom

import (
	"errors"
	"fmt"
	"math"
)

// Construction errors. Both are reported by New; every other operation
// is total over all byte sequences, including the empty one.
var (
	ErrInvalidCapacity = errors.New("bloom: capacity must be greater than zero")
	ErrInvalidRate     = errors.New("bloom: false positive rate must be in (0, 1) exclusive")
)

// Filter is a fixed-capacity Bloom filter. All configuration is frozen
// at construction; the only mutable state is the owned bit array, and
// its bits move monotonically from 0 to 1.
type Filter struct {
	capacity          uint64
	falsePositiveRate float64
	hashRounds        uint64
	bits              *BitArray
}

// New creates a filter sized for capacity expected distinct elements at
// the target false-positive rate. It fails if capacity is zero or the
// rate is outside (0, 1) exclusive; the sizing formulas are undefined
// or degenerate beyond those bounds.
func New(capacity uint64, falsePositiveRate float64) (*Filter, error) {
	if capacity == 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCapacity, capacity)
	}
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidRate, falsePositiveRate)
	}

	bits := NewBitArray(OptimalBitCount(capacity, falsePositiveRate))

	return &Filter{
		capacity:          capacity,
		falsePositiveRate: falsePositiveRate,
		// Derived from the word-rounded size, not the raw formula
		// output, so k matches the bits actually available.
		hashRounds: OptimalHashRounds(bits.Size(), capacity),
		bits:       bits,
	}, nil
}

// OptimalBitCount returns the bit-array size for n elements at rate p:
// m = -(n * ln p) / ln(2)^2, rounded up. The BitArray word-aligns the
// result; this function returns the raw (unaligned) count.
func OptimalBitCount(n uint64, p float64) uint64 {
	ln2 := math.Log(2)
	m := -float64(n) * math.Log(p) / (ln2 * ln2)
	return uint64(math.Ceil(m))
}

// OptimalHashRounds returns the hash-round count for a bit array of m
// bits holding n elements: k = (m / n) * ln 2, rounded up. The ceiling
// of a positive value is at least 1, so the result is always usable.
func OptimalHashRounds(m, n uint64) uint64 {
	k := float64(m) / float64(n) * math.Log(2)
	return uint64(math.Ceil(k))
}

// Add inserts an element. It never fails and is idempotent: re-adding
// an element leaves the bit array unchanged.
func (f *Filter) Add(element []byte) {
	h1, h2 := hashPair(element)
	m := f.bits.Size()
	for j := uint64(1); j <= f.hashRounds; j++ {
		f.bits.Set(position(h1, h2, j, m))
	}
}

// Contains reports whether element has possibly been added. False means
// the element was definitely never added. True means it probably was,
// subject to the configured false-positive rate.
func (f *Filter) Contains(element []byte) bool {
	h1, h2 := hashPair(element)
	m := f.bits.Size()
	// Short-circuit on the first unset bit. The result is a pure
	// conjunction, so round order does not affect the answer.
	for j := uint64(1); j <= f.hashRounds; j++ {
		if !f.bits.Test(position(h1, h2, j, m)) {
			return false
		}
	}
	return true
}

// Capacity returns the expected maximum element count the filter was
// sized for.
func (f *Filter) Capacity() uint64 {
	return f.capacity
}

// FalsePositiveRate returns the design-time false-positive target.
func (f *Filter) FalsePositiveRate() float64 {
	return f.falsePositiveRate
}

// BitCount returns the word-aligned size of the bit array in bits.
func (f *Filter) BitCount() uint64 {
	return f.bits.Size()
}

// HashRounds returns the number of bit positions touched per element.
func (f *Filter) HashRounds() uint64 {
	return f.hashRounds
}

// SetBits returns the number of set bits in the underlying array. This
// is the filter's saturation measure: as it approaches BitCount/2 the
// observed false-positive rate approaches the design target.
func (f *Filter) SetBits() uint64 {
	return f.bits.SetBitCount()
}

// TestBit reports whether bit i of the underlying array is set. It
// exposes a read-only view of the bit array for introspection and
// testing; i must be in [0, BitCount()).
func (f *Filter) TestBit(i uint64) bool {
	return f.bits.Test(i)
}
