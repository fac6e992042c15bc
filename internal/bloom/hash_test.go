package bloom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPairIsDeterministic(t *testing.T) {
	a1, a2 := hashPair([]byte("hello"))
	b1, b2 := hashPair([]byte("hello"))
	require.Equal(t, a1, b1)
	require.Equal(t, a2, b2)
}

func TestHashPairUsesDistinctAlgorithms(t *testing.T) {
	// The two base hashes come from structurally different functions,
	// so they must not agree on ordinary inputs.
	for _, s := range []string{"", "a", "hello", "the quick brown fox"} {
		h1, h2 := hashPair([]byte(s))
		require.NotEqual(t, h1, h2, "input %q", s)
	}
}

func TestHashPairAcceptsEmptyInput(t *testing.T) {
	a1, a2 := hashPair(nil)
	b1, b2 := hashPair([]byte{})
	require.Equal(t, a1, b1)
	require.Equal(t, a2, b2)
}

func TestPositionDoubleHashing(t *testing.T) {
	const m = 9600
	h1, h2 := uint64(12345), uint64(6789)

	require.Equal(t, (h1+h2)%m, position(h1, h2, 1, m))
	require.Equal(t, (h1+2*h2)%m, position(h1, h2, 2, m))
	require.Equal(t, (h1+3*h2)%m, position(h1, h2, 3, m))

	// A zero h2 collapses every round onto h1; positions stay valid.
	require.Equal(t, h1%m, position(h1, 0, 1, m))
	require.Equal(t, h1%m, position(h1, 0, 7, m))
}

func TestPositionStaysInRange(t *testing.T) {
	const m = 64
	h1, h2 := hashPair([]byte("range-check"))
	for j := uint64(1); j <= 32; j++ {
		p := position(h1, h2, j, m)
		require.Less(t, p, uint64(m))
	}
}

func TestPositionWrapsOnOverflow(t *testing.T) {
	// Overflowing uint64 arithmetic must still reduce into range.
	const m = 9600
	p := position(^uint64(0), ^uint64(0), 3, m)
	require.Less(t, p, uint64(m))
}
