package replayguard

import (
	"time"

	"github.com/MrEthical07/replayguard/cache"
)

// Builder assembles a Guard. A Builder can be built once.
type Builder struct {
	config    Config
	auditSink AuditSink
	store     cache.Store[Token]
	now       func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithHitsBeforePurge sets Purge.HitsBeforePurge.
func (b *Builder) WithHitsBeforePurge(n int) *Builder {
	b.config.Purge.HitsBeforePurge = n
	return b
}

// WithStore supplies a custom store, bypassing Store.Backend and Store.Shards.
func (b *Builder) WithStore(store cache.Store[Token]) *Builder {
	b.store = store
	return b
}

// WithClock overrides time.Now for expiry decisions.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithAuditSink sets the sink that receives audit events when audit is enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the purge latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready Guard.
func (b *Builder) Build() (*Guard, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil {
		switch cfg.Store.Backend {
		case BackendSyncMap:
			store = cache.NewSyncMap[Token]()
		default:
			store = cache.NewSharded[Token](cfg.Store.Shards)
		}
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	g := &Guard{
		config:    cfg,
		store:     store,
		now:       now,
		threshold: int64(cfg.Purge.HitsBeforePurge),
		keyFn:     rawKey,
	}
	if cfg.Store.DigestKeys {
		g.keyFn = digestKey
	}
	g.metrics = NewMetrics(cfg.Metrics)
	g.audit = newAuditDispatcher(cfg.Audit, b.auditSink)

	b.built = true

	return g, nil
}
