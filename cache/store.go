package cache

// Store is a concurrent map from string keys to entries of type T.
//
// Implementations are safe for concurrent use. Snapshot is weakly consistent: it may miss or
// include mutations that race with it, but it never fails because of them.
type Store[T any] interface {
	// InsertIfAbsent stores v under key unless an entry already exists.
	// It returns the existing entry and false when the insert did not happen.
	InsertIfAbsent(key string, v *T) (existing *T, inserted bool)
	// CompareAndReplace swaps the entry at key for next only if the resident entry is old.
	CompareAndReplace(key string, old, next *T) bool
	// RemoveIfMatches deletes the entry at key only if the resident entry is v.
	RemoveIfMatches(key string, v *T) bool
	// Snapshot returns the entries resident at some point during the call.
	Snapshot() []*T
	// Len returns the approximate number of resident entries.
	Len() int
}
