// Package prometheus renders replayguard metrics in Prometheus text exposition format.
//
// [NewPrometheusExporter] accepts a *replayguard.Guard and exposes an [http.Handler].
// Counter names are prefixed replayguard_*_total, the resident entry count is the
// replayguard_cache_entries gauge, and the single histogram is
// replayguard_purge_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry (callers mount the Handler).
//   - Mutate guard state.
package prometheus
