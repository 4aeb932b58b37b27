package replayguard

import (
	"fmt"

	"github.com/MrEthical07/replayguard/cache"
)

// LintWarning flags a configuration that is valid but likely unintended.
type LintWarning struct {
	Code    string
	Message string
}

// LintWarnings is the result of Config.Lint.
type LintWarnings []LintWarning

// Codes returns the warning codes in order.
func (ws LintWarnings) Codes() []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Code)
	}
	return out
}

// Above this many calls between sweeps, expired entries can pile up far beyond the live set.
const lintMaxHitsBeforePurge = 100_000

// Lint reports configuration smells. It never fails; call Validate for hard errors.
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings

	if c.Purge.HitsBeforePurge > lintMaxHitsBeforePurge {
		ws = append(ws, LintWarning{
			Code:    "hits_before_purge_large",
			Message: fmt.Sprintf("HitsBeforePurge=%d lets expired entries accumulate between sweeps", c.Purge.HitsBeforePurge),
		})
	}
	if c.Audit.Enabled && !c.Audit.DropIfFull {
		ws = append(ws, LintWarning{
			Code:    "audit_blocking",
			Message: "audit DropIfFull=false makes IsReplayed wait on a slow sink",
		})
	}
	if c.Store.Backend == BackendSyncMap && c.Store.Shards != 0 && c.Store.Shards != cache.DefaultShards {
		ws = append(ws, LintWarning{
			Code:    "shards_ignored",
			Message: "Store.Shards has no effect with the syncmap backend",
		})
	}
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		ws = append(ws, LintWarning{
			Code:    "histograms_without_metrics",
			Message: "EnableLatencyHistograms has no effect while metrics are disabled",
		})
	}

	return ws
}
