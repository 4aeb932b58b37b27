// Package cache provides the concurrent key → entry maps that back the replay guard.
//
// # Atomic primitives
//
// Every [Store] exposes the same per-key primitives: insert-if-absent, compare-and-replace,
// and remove-if-matches. Comparison is by pointer identity of the stored entry, so callers
// must hand in the exact pointer they previously loaded. There is no cross-key atomicity.
//
// # Implementations
//
//   - [Sharded] stripes keys over power-of-two shards, each guarded by its own RWMutex.
//     Shards are chosen by xxhash so unrelated keys rarely contend.
//   - [SyncMap] delegates to sync.Map, whose CompareAndSwap / CompareAndDelete give the
//     same guarantees without explicit locking.
//
// # What this package must NOT do
//
//   - Interpret entries (no expiry logic lives here).
//   - Import replayguard or any exporter package.
//   - Perform I/O.
package cache
