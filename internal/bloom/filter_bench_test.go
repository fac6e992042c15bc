package bloom

import (
	"fmt"
	"testing"
)

func BenchmarkAdd(b *testing.B) {
	f, _ := New(1_000_000, 0.01)
	keys := benchKeys(1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Add(keys[i&1023])
	}
}

func BenchmarkContains(b *testing.B) {
	f, _ := New(1_000_000, 0.01)
	keys := benchKeys(1024)
	for _, k := range keys[:512] {
		f.Add(k)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Contains(keys[i&1023])
	}
}

func benchKeys(n int) [][]byte {
	keys := make([][]byte, n)
	for i := range keys {
		keys[i] = []byte(fmt.Sprintf("bench-key-%d", i))
	}
	return keys
}
