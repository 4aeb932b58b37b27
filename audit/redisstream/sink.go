package redisstream

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/replayguard"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultStream is used when NewSink is given an empty stream name.
	DefaultStream = "replayguard:audit"
	// DefaultMaxLen caps the stream when NewSink is given a non-positive length.
	DefaultMaxLen = 100_000

	metadataPrefix = "meta."
	writeTimeout   = 2 * time.Second
)

// Sink appends audit events to a Redis stream. Write failures are counted, not returned.
type Sink struct {
	rdb    redis.Cmdable
	stream string
	maxLen int64
	failed atomic.Uint64
}

// NewSink returns a Sink writing to stream on rdb, trimmed to roughly maxLen entries.
func NewSink(rdb redis.Cmdable, stream string, maxLen int64) *Sink {
	if stream == "" {
		stream = DefaultStream
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Sink{
		rdb:    rdb,
		stream: stream,
		maxLen: maxLen,
	}
}

// Emit writes event with XADD. It gives up after a short timeout.
func (s *Sink) Emit(ctx context.Context, event replayguard.AuditEvent) {
	if s == nil || s.rdb == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: fields(event),
	}).Err()
	if err != nil {
		s.failed.Add(1)
	}
}

// Failed returns how many events could not be written.
func (s *Sink) Failed() uint64 {
	if s == nil {
		return 0
	}
	return s.failed.Load()
}

// Stream returns the stream key events are written to.
func (s *Sink) Stream() string {
	return s.stream
}

func fields(event replayguard.AuditEvent) map[string]interface{} {
	out := make(map[string]interface{}, 4+len(event.Metadata))
	out["event_type"] = event.EventType
	out["token_id"] = event.TokenID
	out["success"] = strconv.FormatBool(event.Success)
	out["timestamp"] = event.Timestamp.UTC().Format(time.RFC3339Nano)
	for k, v := range event.Metadata {
		out[metadataPrefix+k] = v
	}
	return out
}
