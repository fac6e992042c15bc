package bloom

import "math/bits"

const (
	// wordBits is the width of a storage word. The bit array rounds every
	// requested size up to a multiple of this, so the hot path never has
	// to handle a partial trailing word.
	wordBits = 64

	wordShift = 6  // log2(wordBits)
	wordMask  = 63 // wordBits - 1
)

// BitArray is a fixed-length bit vector backed by 64-bit words.
//
// The logical length is always a multiple of 64: NewBitArray rounds the
// requested size up, and Size reports the rounded value. Callers are
// expected to size-plan around that rounding (the Filter derives its
// hash-round count from the rounded size, not the raw request).
//
// Indices passed to Set, Test and clear must be in [0, Size()). The
// Filter guarantees this structurally by reducing every position modulo
// Size() before indexing, so out-of-range access is a programming error
// here, not a runtime condition; it panics via the slice bounds check.
type BitArray struct {
	words []uint64
}

// NewBitArray allocates a zeroed bit vector holding at least bits bits.
func NewBitArray(bits uint64) *BitArray {
	words := (bits + wordMask) / wordBits
	return &BitArray{words: make([]uint64, words)}
}

// Size returns the logical length in bits (always a multiple of 64).
func (b *BitArray) Size() uint64 {
	return uint64(len(b.words)) * wordBits
}

// Set sets bit i. Setting an already-set bit is a no-op.
func (b *BitArray) Set(i uint64) {
	b.words[i>>wordShift] |= 1 << (i & wordMask)
}

// Test reports whether bit i is set.
func (b *BitArray) Test(i uint64) bool {
	return b.words[i>>wordShift]&(1<<(i&wordMask)) != 0
}

// SetBitCount returns the number of set bits (population count).
func (b *BitArray) SetBitCount() uint64 {
	var n uint64
	for _, w := range b.words {
		n += uint64(bits.OnesCount64(w))
	}
	return n
}

// clear resets bit i. It is intentionally unexported and unreachable
// through Filter: clearing a bit can erase evidence for a different
// element whose positions overlap, which would break the no-false-
// negative guarantee. It exists only for white-box tests.
func (b *BitArray) clear(i uint64) {
	b.words[i>>wordShift] &^= 1 << (i & wordMask)
}
