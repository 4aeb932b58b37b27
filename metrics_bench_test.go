package replayguard

import (
	"testing"
	"time"
)

func BenchmarkMetricsIncDisabled(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: false})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Inc(MetricReplayCheck)
	}
}

func BenchmarkMetricsIncEnabledParallel(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true})
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Inc(MetricReplayCheck)
		}
	})
}

func BenchmarkMetricsObserve(b *testing.B) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m.Observe(MetricPurgeLatency, 300*time.Microsecond)
	}
}
