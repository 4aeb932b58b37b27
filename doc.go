// Package replayguard provides an in-memory replay-prevention cache for single-use security
// tokens.
//
// A [Guard] remembers every accepted token ID together with its validity window and answers
// [Guard.IsReplayed] for each presented [Token]. A token whose ID is held by a live entry is a
// replay. A token whose ID is held by an expired entry renews the slot; when two callers race
// for the same expired slot exactly one wins and the other is reported as a replay.
//
// # Memory bound
//
// There is no background goroutine. The hit counter is compared before it is incremented, so
// with HitsBeforePurge = N the sweep runs on calls N+1, 2(N+1), ... (summed across all
// callers): the caller that crosses the threshold sweeps expired entries inline. The sweep
// works from a weakly consistent snapshot and removes an entry only if it is still the
// resident one, so a concurrent renewal is never evicted.
//
// # Sharing
//
// Replay detection only works when every enforcement path consults the same Guard. Build one
// with [New] and pass it around, or use [Default] for a lazily built process-wide instance.
//
// # What this package must NOT do
//
//   - Verify token signatures or MACs (callers do that before IsReplayed).
//   - Persist entries or share them across processes.
//   - Perform I/O on the IsReplayed path (audit delivery is asynchronous and off by default).
package replayguard
