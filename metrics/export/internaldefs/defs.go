package internaldefs

import (
	"github.com/MrEthical07/replayguard"
)

// CounterDef maps a replayguard counter to its exported name.
type CounterDef struct {
	ID   replayguard.MetricID
	Name string
	Help string
}

// HistogramDef maps a replayguard histogram to its exported name.
type HistogramDef struct {
	ID   replayguard.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: replayguard.MetricReplayCheck, Name: "replayguard_checks_total", Help: "IsReplayed calls."},
	{ID: replayguard.MetricFreshAccepted, Name: "replayguard_fresh_accepted_total", Help: "Tokens accepted with a previously unseen ID."},
	{ID: replayguard.MetricRenewalAccepted, Name: "replayguard_renewal_accepted_total", Help: "Tokens accepted by reclaiming an expired entry."},
	{ID: replayguard.MetricReplayDetected, Name: "replayguard_replay_detected_total", Help: "Tokens rejected as replays."},
	{ID: replayguard.MetricRenewalRaceLost, Name: "replayguard_renewal_race_lost_total", Help: "Replays caused by losing a concurrent renewal."},
	{ID: replayguard.MetricPurgeRun, Name: "replayguard_purge_runs_total", Help: "Expired-entry sweeps."},
	{ID: replayguard.MetricPurgeEvicted, Name: "replayguard_purge_evicted_total", Help: "Entries removed by sweeps."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: replayguard.MetricPurgeLatency, Name: "replayguard_purge_latency_seconds", Help: "Purge sweep latency histogram."},
}

// HistogramBounds are the upper bounds, in seconds, of the eight latency buckets.
var HistogramBounds = []string{
	"0.00005",
	"0.0001",
	"0.00025",
	"0.0005",
	"0.001",
	"0.005",
	"0.025",
	"+Inf",
}

// HistogramBoundSuffix are HistogramBounds rendered as metric-name suffixes.
var HistogramBoundSuffix = []string{
	"0_00005",
	"0_0001",
	"0_00025",
	"0_0005",
	"0_001",
	"0_005",
	"0_025",
	"inf",
}

const (
	// CacheEntriesName is the gauge of resident cache entries.
	CacheEntriesName = "replayguard_cache_entries"
	// CacheEntriesHelp describes CacheEntriesName.
	CacheEntriesHelp = "Resident replay cache entries."
	// AuditDroppedName counts audit events lost to backpressure.
	AuditDroppedName = "replayguard_audit_dropped_total"
	// AuditDroppedHelp describes AuditDroppedName.
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

// NormalizeBuckets copies raw into a fixed eight-bucket array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
