package replayguard

import "testing"

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

func TestLint_DefaultConfigNoWarnings(t *testing.T) {
	cfg := defaultConfig()
	if ws := cfg.Lint(); len(ws) != 0 {
		t.Fatalf("expected no warnings for defaults, got %v", ws.Codes())
	}
}

func TestLint_LargeHitsBeforePurge(t *testing.T) {
	cfg := defaultConfig()
	cfg.Purge.HitsBeforePurge = 1_000_000
	if !containsCode(cfg.Lint().Codes(), "hits_before_purge_large") {
		t.Error("expected hits_before_purge_large warning")
	}
}

func TestLint_BlockingAudit(t *testing.T) {
	cfg := defaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	if !containsCode(cfg.Lint().Codes(), "audit_blocking") {
		t.Error("expected audit_blocking warning")
	}

	cfg.Audit.Enabled = false
	if containsCode(cfg.Lint().Codes(), "audit_blocking") {
		t.Error("disabled audit must not warn")
	}
}

func TestLint_ShardsIgnoredBySyncMap(t *testing.T) {
	cfg := defaultConfig()
	cfg.Store.Backend = BackendSyncMap
	cfg.Store.Shards = 64
	if !containsCode(cfg.Lint().Codes(), "shards_ignored") {
		t.Error("expected shards_ignored warning")
	}
}

func TestLint_HistogramsWithoutMetrics(t *testing.T) {
	cfg := defaultConfig()
	cfg.Metrics.EnableLatencyHistograms = true
	if !containsCode(cfg.Lint().Codes(), "histograms_without_metrics") {
		t.Error("expected histograms_without_metrics warning")
	}
}
