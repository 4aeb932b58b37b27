// Package otel binds replayguard counters and histograms to OpenTelemetry instruments.
//
// [NewOTelExporter] registers an Int64ObservableCounter per counter, an
// Int64ObservableGauge per histogram bucket, and a gauge for resident cache entries. A
// single callback reads Guard.MetricsSnapshot on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider (callers supply the Meter).
//   - Mutate guard state.
package otel
