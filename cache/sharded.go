package cache

import (
	"math/bits"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultShards is the shard count used when none is configured.
	DefaultShards = 32
	// MaxShards caps lock striping.
	MaxShards = 4096
)

type shard[T any] struct {
	mu      sync.RWMutex
	entries map[string]*T
}

// Sharded is a lock-striped [Store]. Each key maps to exactly one shard, so per-key operations
// serialize only against keys sharing that shard.
type Sharded[T any] struct {
	shards []shard[T]
	mask   uint64
}

// NewSharded creates a Sharded store. n is rounded up to a power of two and clamped to
// [1, MaxShards]; n <= 0 selects DefaultShards.
func NewSharded[T any](n int) *Sharded[T] {
	n = normalizeShards(n)
	s := &Sharded[T]{
		shards: make([]shard[T], n),
		mask:   uint64(n - 1),
	}
	for i := range s.shards {
		s.shards[i].entries = make(map[string]*T)
	}
	return s
}

func normalizeShards(n int) int {
	if n <= 0 {
		return DefaultShards
	}
	if n > MaxShards {
		return MaxShards
	}
	if n&(n-1) == 0 {
		return n
	}
	return 1 << bits.Len(uint(n))
}

func (s *Sharded[T]) shardFor(key string) *shard[T] {
	return &s.shards[xxhash.Sum64String(key)&s.mask]
}

// InsertIfAbsent implements [Store].
func (s *Sharded[T]) InsertIfAbsent(key string, v *T) (*T, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if existing, ok := sh.entries[key]; ok {
		return existing, false
	}
	sh.entries[key] = v
	return nil, true
}

// CompareAndReplace implements [Store].
func (s *Sharded[T]) CompareAndReplace(key string, old, next *T) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if cur, ok := sh.entries[key]; !ok || cur != old {
		return false
	}
	sh.entries[key] = next
	return true
}

// RemoveIfMatches implements [Store].
func (s *Sharded[T]) RemoveIfMatches(key string, v *T) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if cur, ok := sh.entries[key]; !ok || cur != v {
		return false
	}
	delete(sh.entries, key)
	return true
}

// Snapshot implements [Store]. Shards are read-locked one at a time, never all at once.
func (s *Sharded[T]) Snapshot() []*T {
	out := make([]*T, 0, s.Len())
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for _, v := range sh.entries {
			out = append(out, v)
		}
		sh.mu.RUnlock()
	}
	return out
}

// Len implements [Store].
func (s *Sharded[T]) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		n += len(sh.entries)
		sh.mu.RUnlock()
	}
	return n
}

// Shards returns the effective shard count.
func (s *Sharded[T]) Shards() int {
	return len(s.shards)
}
