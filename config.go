package replayguard

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MrEthical07/replayguard/cache"
	"gopkg.in/yaml.v3"
)

const (
	// EnvHitsBeforePurge is the environment variable read by ConfigFromEnv.
	EnvHitsBeforePurge = "REPLAYGUARD_HITS_BEFORE_PURGE"
	// LegacyHitsBeforePurgeProperty is accepted when EnvHitsBeforePurge is unset.
	LegacyHitsBeforePurgeProperty = "hits_before_purge"

	// DefaultHitsBeforePurge is the default purge threshold; sweeps run every sixth call.
	DefaultHitsBeforePurge = 5
)

// Store backend names accepted by StoreConfig.Backend.
const (
	BackendSharded = "sharded"
	BackendSyncMap = "syncmap"
)

// Config holds every tunable of a Guard.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	Purge   PurgeConfig   `yaml:"purge"`
	Store   StoreConfig   `yaml:"store"`
	Audit   AuditConfig   `yaml:"audit"`
	Metrics MetricsConfig `yaml:"metrics"`
}

/*
====================================
PURGE CONFIG
====================================
*/

// PurgeConfig controls the counter-driven purge of expired entries.
type PurgeConfig struct {
	// HitsBeforePurge is the number of IsReplayed calls, summed across all callers, counted
	// before a call triggers an automatic sweep. Sweeps run every HitsBeforePurge+1 calls.
	HitsBeforePurge int `yaml:"hits_before_purge"`
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig selects and sizes the concurrent map behind the guard.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "sharded" (default) or "syncmap"
	Shards  int    `yaml:"shards"`  // sharded only; rounded up to a power of two
	// DigestKeys stores BLAKE2b-256 digests of token IDs instead of the raw IDs.
	DigestKeys bool `yaml:"digest_keys"`
}

// AuditConfig controls asynchronous audit event dispatch.
type AuditConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"buffer_size"`
	DropIfFull bool `yaml:"drop_if_full"`
}

// MetricsConfig controls in-process counters and the purge latency histogram.
type MetricsConfig struct {
	Enabled                 bool `yaml:"enabled"`
	EnableLatencyHistograms bool `yaml:"enable_latency_histograms"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Purge: PurgeConfig{
			HitsBeforePurge: DefaultHitsBeforePurge,
		},
		Store: StoreConfig{
			Backend:    BackendSharded,
			Shards:     cache.DefaultShards,
			DigestKeys: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

/*
====================================
LOADING
====================================
*/

// ConfigFromEnv returns the default configuration with environment overrides applied.
//
// HitsBeforePurge is read from REPLAYGUARD_HITS_BEFORE_PURGE, then from hits_before_purge.
// An override that does not parse or validate keeps its default and is reported in the
// returned error; every other override still applies, so the returned Config is always valid.
func ConfigFromEnv() (Config, error) {
	cfg := defaultConfig()
	def := defaultConfig()
	var errs []error

	raw := envOr(EnvHitsBeforePurge, os.Getenv(LegacyHitsBeforePurgeProperty))
	if raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidHitsBeforePurge, raw))
		} else {
			cfg.Purge.HitsBeforePurge = n
		}
	}

	switch backend := envOr("REPLAYGUARD_STORE_BACKEND", def.Store.Backend); backend {
	case BackendSharded, BackendSyncMap:
		cfg.Store.Backend = backend
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStoreBackend, backend))
	}
	if raw := os.Getenv("REPLAYGUARD_STORE_SHARDS"); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 || n > cache.MaxShards {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStoreShards, raw))
		} else {
			cfg.Store.Shards = n
		}
	}
	cfg.Store.DigestKeys = envBool("REPLAYGUARD_DIGEST_KEYS", cfg.Store.DigestKeys)
	cfg.Audit.Enabled = envBool("REPLAYGUARD_AUDIT", cfg.Audit.Enabled)
	cfg.Metrics.Enabled = envBool("REPLAYGUARD_METRICS", cfg.Metrics.Enabled)
	cfg.Metrics.EnableLatencyHistograms = envBool("REPLAYGUARD_LATENCY_HISTOGRAMS", cfg.Metrics.EnableLatencyHistograms)

	return cfg, errors.Join(errs...)
}

// LoadConfigFile reads a YAML configuration file. Fields absent from the file keep their defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := defaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for values the guard cannot run with.
func (c *Config) Validate() error {
	if c.Purge.HitsBeforePurge <= 0 {
		return ErrInvalidHitsBeforePurge
	}

	switch c.Store.Backend {
	case BackendSharded:
		if c.Store.Shards < 0 || c.Store.Shards > cache.MaxShards {
			return ErrInvalidStoreShards
		}
	case BackendSyncMap:
		// shard count is ignored
	default:
		return ErrInvalidStoreBackend
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
