package replayguard

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/replayguard/cache"
	"golang.org/x/crypto/blake2b"
)

// Guard answers, for every presented token, whether its ID has already been accepted.
//
// A Guard is safe for concurrent use. All callers that must see each other's tokens have to
// share the same *Guard: two guards never see each other's entries.
type Guard struct {
	config    Config
	store     cache.Store[Token]
	now       func() time.Time
	keyFn     func(string) string
	hits      atomic.Int64
	threshold int64
	metrics   *Metrics
	audit     *auditDispatcher
}

// IsReplayed reports whether tok's ID is already held by a live entry.
//
// A fresh ID is stored and reported as not replayed. An ID whose resident entry has expired
// is reclaimed by tok, unless a concurrent caller reclaims it first, in which case tok is
// reported as replayed. IsReplayed never fails and never retries.
//
// Every call counts towards HitsBeforePurge. The call that finds HitsBeforePurge hits already
// counted sweeps expired entries inline before returning, so sweeps run once every
// HitsBeforePurge+1 calls.
func (g *Guard) IsReplayed(tok Token) bool {
	replayed := g.decide(tok)
	g.countHit()
	return replayed
}

func (g *Guard) decide(tok Token) bool {
	g.metricInc(MetricReplayCheck)

	key := g.keyFn(tok.ID)
	candidate := tok.clone()

	existing, inserted := g.store.InsertIfAbsent(key, candidate)
	if inserted {
		g.metricInc(MetricFreshAccepted)
		return false
	}

	if !existing.Expired(g.now()) {
		g.metricInc(MetricReplayDetected)
		g.emitReplay(tok.ID, ReplayReasonLiveEntry)
		return true
	}

	if g.store.CompareAndReplace(key, existing, candidate) {
		g.metricInc(MetricRenewalAccepted)
		g.emitAudit(AuditEventRenewalAccepted, tok.ID, true, nil)
		return false
	}

	// Another caller reclaimed the expired slot between our load and swap.
	g.metricInc(MetricReplayDetected)
	g.metricInc(MetricRenewalRaceLost)
	g.emitReplay(tok.ID, ReplayReasonRenewalRaceLost)
	return true
}

// countHit advances the shared counter. The caller whose pre-increment value reaches the
// threshold, and who wins the reset, runs the purge after the counter is already released.
func (g *Guard) countHit() {
	pre := g.hits.Add(1) - 1
	if pre < g.threshold {
		return
	}
	if !g.hits.CompareAndSwap(pre+1, 0) {
		return
	}
	g.purgeExpired()
}

// Purge sweeps expired entries immediately and returns how many were evicted.
// It does not touch the hit counter.
func (g *Guard) Purge() int {
	if g == nil {
		return 0
	}
	return g.purgeExpired()
}

func (g *Guard) purgeExpired() int {
	start := time.Now()
	now := g.now()

	snapshot := g.store.Snapshot()
	evicted := 0
	for _, tok := range snapshot {
		if !tok.Expired(now) {
			continue
		}
		// A concurrent renewal may have installed a live token under the same key.
		if g.store.RemoveIfMatches(g.keyFn(tok.ID), tok) {
			evicted++
		}
	}

	g.metricInc(MetricPurgeRun)
	g.metrics.Add(MetricPurgeEvicted, uint64(evicted))
	g.metrics.Observe(MetricPurgeLatency, time.Since(start))
	g.emitAudit(AuditEventPurgeCompleted, "", true, func() map[string]string {
		return map[string]string{
			"scanned": strconv.Itoa(len(snapshot)),
			"evicted": strconv.Itoa(evicted),
		}
	})

	return evicted
}

// Len returns the number of resident entries.
func (g *Guard) Len() int {
	if g == nil {
		return 0
	}
	return g.store.Len()
}

// Config returns the configuration the guard was built with.
func (g *Guard) Config() Config {
	if g == nil {
		return Config{}
	}
	return g.config
}

// Close flushes and stops the audit dispatcher. The guard keeps answering IsReplayed.
func (g *Guard) Close() {
	if g == nil {
		return
	}
	if g.audit != nil {
		g.audit.Close()
	}
}

// AuditDropped returns the number of audit events dropped due to a full buffer.
func (g *Guard) AuditDropped() uint64 {
	if g == nil || g.audit == nil {
		return 0
	}
	return g.audit.Dropped()
}

// MetricsSnapshot returns the current counters.
func (g *Guard) MetricsSnapshot() MetricsSnapshot {
	if g == nil || g.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return g.metrics.Snapshot()
}

// CacheEntries reports Len for metrics exporters.
func (g *Guard) CacheEntries() uint64 {
	return uint64(g.Len())
}

func (g *Guard) metricInc(id MetricID) {
	g.metrics.Inc(id)
}

func (g *Guard) emitReplay(tokenID, reason string) {
	g.emitAudit(AuditEventReplayDetected, tokenID, false, func() map[string]string {
		return map[string]string{"reason": reason}
	})
}

func (g *Guard) emitAudit(eventType, tokenID string, success bool, metadataBuilder func() map[string]string) {
	if g.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	g.audit.Emit(context.Background(), AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		TokenID:   tokenID,
		Success:   success,
		Metadata:  metadata,
	})
}

func rawKey(id string) string {
	return id
}

func digestKey(id string) string {
	sum := blake2b.Sum256([]byte(id))
	return string(sum[:])
}
