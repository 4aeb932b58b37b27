// Package redisstream ships replayguard audit events to a Redis stream.
//
// [Sink] implements replayguard.AuditSink. Each event becomes one XADD entry whose fields
// are event_type, token_id, success, timestamp (RFC 3339, nanoseconds), and one
// meta.<key> field per metadata entry. The stream is capped with an approximate MAXLEN.
//
// Sink performs network I/O, so it belongs behind the guard's asynchronous audit
// dispatcher, never on the IsReplayed path directly.
package redisstream
