package replayguard

import "errors"

// Construction and configuration errors. IsReplayed itself never fails.
var (
	// ErrInvalidHitsBeforePurge is returned when HitsBeforePurge is not a positive integer.
	ErrInvalidHitsBeforePurge = errors.New("HitsBeforePurge must be a positive integer")
	// ErrInvalidStoreBackend is returned for an unknown Store.Backend.
	ErrInvalidStoreBackend = errors.New("Store Backend must be 'sharded' or 'syncmap'")
	// ErrInvalidStoreShards is returned when Store.Shards is out of range.
	ErrInvalidStoreShards = errors.New("Store Shards must be between 0 and 4096")
	// ErrBuilderUsed is returned when Build is called twice on the same Builder.
	ErrBuilderUsed = errors.New("builder already used")
)
