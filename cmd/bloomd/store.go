// store.go implements the in-memory registry of named Bloom filters.
//
// The FilterStore is the external synchronization layer the filter
// design requires: internal/bloom.Filter is deliberately lock-free, so
// every access goes through the store's RWMutex. Query commands share
// the read lock (concurrent Contains calls on a quiescent filter are
// safe); anything that may set a bit or change the map takes the write
// lock.
//
// A single mutex (rather than the sharded design used for generic
// key-value workloads) is enough here: the protected section is a few
// hash computations and word reads, so contention is negligible until
// well past the throughput a single accept loop sustains.

package main

import (
	"errors"
	"sort"
	"sync"

	"bloomd.lopezb.com/internal/bloom"
)

var errFilterExists = errors.New("filter already exists")

// FilterStore maps filter names to their instances.
type FilterStore struct {
	mu      sync.RWMutex
	filters map[string]*bloom.Filter
}

// NewFilterStore creates an empty store.
func NewFilterStore() *FilterStore {
	return &FilterStore{
		filters: make(map[string]*bloom.Filter),
	}
}

// Reserve creates a filter under the given name with explicit sizing.
// It fails if the name is taken or the parameters are invalid; an
// existing filter is never resized or replaced, since re-deriving
// parameters would silently invalidate every bit already set.
func (s *FilterStore) Reserve(name string, capacity uint64, errorRate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.filters[name]; ok {
		return errFilterExists
	}

	f, err := bloom.New(capacity, errorRate)
	if err != nil {
		return err
	}

	s.filters[name] = f
	return nil
}

// Add inserts item into the named filter, creating the filter with the
// supplied default sizing when it does not exist yet. It returns true
// if the item was not present before this call (i.e., at least per the
// filter's answer, this add was new).
func (s *FilterStore) Add(name string, item []byte, defCapacity uint64, defErrorRate float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.getOrCreate(name, defCapacity, defErrorRate)
	if err != nil {
		return false, err
	}

	if f.Contains(item) {
		return false, nil
	}
	f.Add(item)
	return true, nil
}

// MAdd inserts a batch of items under a single lock acquisition and
// reports per-item newness in input order.
func (s *FilterStore) MAdd(name string, items []string, defCapacity uint64, defErrorRate float64) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.getOrCreate(name, defCapacity, defErrorRate)
	if err != nil {
		return nil, err
	}

	results := make([]int, len(items))
	for i, item := range items {
		b := []byte(item)
		if !f.Contains(b) {
			f.Add(b)
			results[i] = 1
		}
	}
	return results, nil
}

// getOrCreate returns the named filter, constructing it with the given
// sizing when absent. Caller must hold the write lock.
func (s *FilterStore) getOrCreate(name string, capacity uint64, errorRate float64) (*bloom.Filter, error) {
	if f, ok := s.filters[name]; ok {
		return f, nil
	}
	f, err := bloom.New(capacity, errorRate)
	if err != nil {
		return nil, err
	}
	s.filters[name] = f
	return f, nil
}

// Contains reports whether item is possibly in the named filter. The
// second return value is false when the filter does not exist (which
// callers report as "definitely not present").
func (s *FilterStore) Contains(name string, item []byte) (possible bool, found bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.filters[name]
	if !ok {
		return false, false
	}
	return f.Contains(item), true
}

// MContains batch-checks items against the named filter under one read
// lock. Results are 1/0 in input order; a missing filter yields all
// zeros, matching the empty-filter answer.
func (s *FilterStore) MContains(name string, items []string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]int, len(items))
	f, ok := s.filters[name]
	if !ok {
		return results
	}
	for i, item := range items {
		if f.Contains([]byte(item)) {
			results[i] = 1
		}
	}
	return results
}

// FilterInfo is a point-in-time snapshot of a filter's configuration
// and saturation, taken under the read lock.
type FilterInfo struct {
	Capacity   uint64
	ErrorRate  float64
	BitCount   uint64
	HashRounds uint64
	SetBits    uint64
}

// Info returns a snapshot for the named filter.
func (s *FilterStore) Info(name string) (FilterInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.filters[name]
	if !ok {
		return FilterInfo{}, false
	}
	return FilterInfo{
		Capacity:   f.Capacity(),
		ErrorRate:  f.FalsePositiveRate(),
		BitCount:   f.BitCount(),
		HashRounds: f.HashRounds(),
		SetBits:    f.SetBits(),
	}, true
}

// Drop removes the named filter entirely. This is the only way to
// "clear" a filter: per-element removal is impossible without risking
// false negatives, so the unit of deletion is the whole filter.
func (s *FilterStore) Drop(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.filters[name]; !ok {
		return false
	}
	delete(s.filters, name)
	return true
}

// Len returns the number of filters currently held.
func (s *FilterStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.filters)
}

// Names returns the filter names in sorted order, for STATS output.
func (s *FilterStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.filters))
	for name := range s.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
