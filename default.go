package replayguard

import (
	"log"
	"sync"
)

var (
	defaultOnce  sync.Once
	defaultGuard *Guard
)

// Default returns the process-wide Guard, building it on first use from ConfigFromEnv.
//
// Every call returns the same *Guard, so callers that obtain it independently still share one
// store and one hit counter. An invalid environment override keeps its default and is logged
// once; the valid overrides still apply.
func Default() *Guard {
	defaultOnce.Do(func() {
		cfg, err := ConfigFromEnv()
		if err != nil {
			log.Printf("replayguard: ignoring invalid environment overrides, keeping defaults for them: %v", err)
		}

		g, err := New().WithConfig(cfg).Build()
		if err != nil {
			// defaultConfig always validates; reaching this is a programming error.
			panic("replayguard: default guard construction failed: " + err.Error())
		}
		defaultGuard = g
	})
	return defaultGuard
}
