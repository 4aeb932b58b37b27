package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrEthical07/replayguard"
	"github.com/MrEthical07/replayguard/jwt"
	"github.com/MrEthical07/replayguard/middleware"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		configPath = flag.String("config", "", "YAML config file; if empty, REPLAYGUARD_* env vars are used")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "replayguardd: ", log.LstdFlags|log.LUTC)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	// The daemon always serves /metrics.
	cfg.Metrics.Enabled = true
	for _, w := range cfg.Lint() {
		logger.Printf("config warning %s: %s", w.Code, w.Message)
	}

	guard, err := replayguard.New().WithConfig(cfg).WithAuditSink(replayguard.NewJSONWriterSink(os.Stdout)).Build()
	if err != nil {
		logger.Fatalf("build guard: %v", err)
	}
	defer guard.Close()

	var source middleware.TokenSource
	if secret := os.Getenv("REPLAYGUARD_JWT_SECRET"); secret != "" {
		m, err := jwt.NewManager(jwt.Config{
			SigningMethod: jwt.MethodHS256,
			PrivateKey:    []byte(secret),
			Issuer:        os.Getenv("REPLAYGUARD_JWT_ISSUER"),
			Audience:      os.Getenv("REPLAYGUARD_JWT_AUDIENCE"),
		})
		if err != nil {
			logger.Fatalf("jwt: %v", err)
		}
		source = m
	}

	s := &http.Server{
		Addr:              *addr,
		Handler:           newRouter(guard, source, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	logger.Printf("listening on %s (hits_before_purge=%d backend=%s)", *addr, cfg.Purge.HitsBeforePurge, cfg.Store.Backend)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(err)
	}
}

func loadConfig(path string) (replayguard.Config, error) {
	if path != "" {
		return replayguard.LoadConfigFile(path)
	}
	return replayguard.ConfigFromEnv()
}
