package cache

import (
	"sync"
	"sync/atomic"
)

// SyncMap is a [Store] backed by sync.Map.
type SyncMap[T any] struct {
	m     sync.Map
	count atomic.Int64
}

// NewSyncMap creates an empty SyncMap store.
func NewSyncMap[T any]() *SyncMap[T] {
	return &SyncMap[T]{}
}

// InsertIfAbsent implements [Store].
func (s *SyncMap[T]) InsertIfAbsent(key string, v *T) (*T, bool) {
	actual, loaded := s.m.LoadOrStore(key, v)
	if loaded {
		return actual.(*T), false
	}
	s.count.Add(1)
	return nil, true
}

// CompareAndReplace implements [Store].
func (s *SyncMap[T]) CompareAndReplace(key string, old, next *T) bool {
	return s.m.CompareAndSwap(key, old, next)
}

// RemoveIfMatches implements [Store].
func (s *SyncMap[T]) RemoveIfMatches(key string, v *T) bool {
	if !s.m.CompareAndDelete(key, v) {
		return false
	}
	s.count.Add(-1)
	return true
}

// Snapshot implements [Store].
func (s *SyncMap[T]) Snapshot() []*T {
	out := make([]*T, 0, s.Len())
	s.m.Range(func(_, value any) bool {
		out = append(out, value.(*T))
		return true
	})
	return out
}

// Len implements [Store]. The count is maintained beside the map and may briefly lag it.
func (s *SyncMap[T]) Len() int {
	n := s.count.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}
