package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/replayguard"
	"github.com/MrEthical07/replayguard/audit/redisstream"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		tokens      = flag.Int("tokens", 100000, "number of distinct token IDs")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (fresh, replay, churn)")
		hits        = flag.Int("hits-before-purge", replayguard.DefaultHitsBeforePurge, "calls between purge sweeps")
		backend     = flag.String("backend", replayguard.BackendSharded, "store backend: sharded or syncmap")
		shards      = flag.Int("shards", 0, "shard count for the sharded backend (0 = default)")
		audit       = flag.Bool("audit", false, "ship audit events to a Redis stream")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		stream      = flag.String("stream", redisstream.DefaultStream, "audit stream key")
	)
	flag.Parse()

	if *tokens <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "tokens, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	cfg := replayguard.DefaultConfig()
	cfg.Purge.HitsBeforePurge = *hits
	cfg.Store.Backend = *backend
	if *shards > 0 {
		cfg.Store.Shards = *shards
	}
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	builder := replayguard.New()
	var sink *redisstream.Sink
	if *audit {
		client, cleanup := openRedis(*redisAddr)
		defer cleanup()
		sink = redisstream.NewSink(client, *stream, 0)
		cfg.Audit.Enabled = true
		builder = builder.WithAuditSink(sink)
	}

	guard, err := builder.WithConfig(cfg).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	ids := make([]string, *tokens)
	for i := range ids {
		ids[i] = uuid.NewString()
	}

	fresh := runPhase(guard, *ops, *concurrency, func(r *rand.Rand, i int) (replayguard.Token, bool) {
		now := time.Now()
		return replayguard.NewToken(uuid.NewString(), now, now.Add(time.Hour), nil, nil), false
	})

	// Seed the pool so the replay phase always hits live entries.
	now := time.Now()
	for _, id := range ids {
		guard.IsReplayed(replayguard.NewToken(id, now, now.Add(time.Hour), nil, nil))
	}
	replay := runPhase(guard, *ops, *concurrency, func(r *rand.Rand, i int) (replayguard.Token, bool) {
		now := time.Now()
		return replayguard.NewToken(ids[r.Intn(len(ids))], now, now.Add(time.Hour), nil, nil), true
	})

	// Churn: millisecond windows on a small pool force renewals and renewal races.
	pool := ids
	if len(pool) > 1024 {
		pool = pool[:1024]
	}
	churn := runPhase(guard, *ops, *concurrency, func(r *rand.Rand, i int) (replayguard.Token, bool) {
		now := time.Now()
		return replayguard.NewToken(pool[r.Intn(len(pool))], now, now.Add(time.Millisecond), nil, nil), false
	})

	guard.Close()

	fmt.Println("---- results ----")
	printStats("fresh", fresh)
	printStats("replay", replay)
	printStats("churn", churn)

	snap := guard.MetricsSnapshot()
	fmt.Printf("entries=%d purges=%d evicted=%d renewals=%d races_lost=%d audit_dropped=%d\n",
		guard.Len(),
		snap.Counters[replayguard.MetricPurgeRun],
		snap.Counters[replayguard.MetricPurgeEvicted],
		snap.Counters[replayguard.MetricRenewalAccepted],
		snap.Counters[replayguard.MetricRenewalRaceLost],
		guard.AuditDropped(),
	)
	if sink != nil {
		fmt.Printf("audit stream=%s write_failures=%d\n", sink.Stream(), sink.Failed())
	}
}

func openRedis(flagAddr string) (redis.UniversalClient, func()) {
	addr := flagAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{mr.Addr()},
		})
		fmt.Printf("using miniredis at %s\n", mr.Addr())
		return client, func() {
			_ = client.Close()
			mr.Close()
		}
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{addr},
	})
	fmt.Printf("using redis at %s\n", addr)
	return client, func() { _ = client.Close() }
}

// nextToken returns the token for operation i and whether it is expected to be a replay.
// Phases where the outcome is racy return false and count no failures.
type nextToken func(r *rand.Rand, i int) (replayguard.Token, bool)

func runPhase(guard *replayguard.Guard, ops, concurrency int, next nextToken) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				tok, wantReplay := next(r, i)
				t0 := time.Now()
				replayed := guard.IsReplayed(tok)
				d := time.Since(t0)
				if wantReplay && !replayed {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
