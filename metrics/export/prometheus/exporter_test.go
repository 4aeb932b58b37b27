package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MrEthical07/replayguard"
)

type fakeSource struct {
	snapshot replayguard.MetricsSnapshot
	dropped  uint64
	entries  uint64
}

func (f fakeSource) MetricsSnapshot() replayguard.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                         { return f.dropped }
func (f fakeSource) CacheEntries() uint64                         { return f.entries }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: replayguard.MetricsSnapshot{
			Counters:   map[replayguard.MetricID]uint64{},
			Histograms: map[replayguard.MetricID][]uint64{},
		},
		entries: 4,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderDeterministicIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: replayguard.MetricsSnapshot{
			Counters: map[replayguard.MetricID]uint64{
				replayguard.MetricReplayDetected: 7,
			},
			Histograms: map[replayguard.MetricID][]uint64{
				replayguard.MetricPurgeLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
		entries: 11,
	})

	out := exp.Render()
	for _, want := range []string{
		"replayguard_replay_detected_total 7",
		"replayguard_checks_total 0",
		"replayguard_purge_latency_seconds_bucket{le=\"0.00005\"} 1",
		"replayguard_purge_latency_seconds_bucket{le=\"+Inf\"} 36",
		"replayguard_purge_latency_seconds_count 36",
		"# TYPE replayguard_cache_entries gauge",
		"replayguard_cache_entries 11",
		"replayguard_audit_dropped_total 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestRenderFromGuard(t *testing.T) {
	g, err := replayguard.New().WithMetricsEnabled(true).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer g.Close()

	now := time.Now()
	tok := replayguard.NewToken("a", now, now.Add(time.Minute), nil, nil)
	g.IsReplayed(tok)
	g.IsReplayed(tok)

	out := NewPrometheusExporter(g).Render()
	for _, want := range []string{
		"replayguard_checks_total 2",
		"replayguard_fresh_accepted_total 1",
		"replayguard_replay_detected_total 1",
		"replayguard_cache_entries 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestHandlerWritesPrometheusContentType(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: replayguard.MetricsSnapshot{
			Counters:   map[replayguard.MetricID]uint64{replayguard.MetricReplayCheck: 1},
			Histograms: map[replayguard.MetricID][]uint64{},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected prometheus content type, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func BenchmarkRender(b *testing.B) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: replayguard.MetricsSnapshot{
			Counters: map[replayguard.MetricID]uint64{
				replayguard.MetricReplayCheck:     1000,
				replayguard.MetricFreshAccepted:   900,
				replayguard.MetricRenewalAccepted: 40,
				replayguard.MetricReplayDetected:  60,
				replayguard.MetricPurgeRun:        200,
				replayguard.MetricPurgeEvicted:    850,
			},
			Histograms: map[replayguard.MetricID][]uint64{
				replayguard.MetricPurgeLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
		entries: 5000,
	})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = exp.Render()
	}
}
