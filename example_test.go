package replayguard_test

import (
	"fmt"
	"time"

	"github.com/MrEthical07/replayguard"
)

// ExampleNew builds a guard and checks the same token twice.
func ExampleNew() {
	guard, err := replayguard.New().
		WithHitsBeforePurge(100).
		Build()
	if err != nil {
		panic(err)
	}
	defer guard.Close()

	now := time.Now()
	tok := replayguard.NewToken("nonce-1", now, now.Add(time.Minute), []byte("body"), nil)

	fmt.Println(guard.IsReplayed(tok))
	fmt.Println(guard.IsReplayed(tok))
	// Output:
	// false
	// true
}

// ExampleGuard_IsReplayed_renewal shows an expired entry being reclaimed by a new token with
// the same ID.
func ExampleGuard_IsReplayed_renewal() {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := now
	guard, err := replayguard.New().WithClock(func() time.Time { return clock }).Build()
	if err != nil {
		panic(err)
	}

	first := replayguard.NewToken("id", now, now.Add(time.Second), nil, nil)
	fmt.Println(guard.IsReplayed(first))

	clock = now.Add(2 * time.Second)
	second := replayguard.NewToken("id", clock, clock.Add(time.Second), nil, nil)
	fmt.Println(guard.IsReplayed(second))
	fmt.Println(guard.IsReplayed(second))
	// Output:
	// false
	// false
	// true
}

// ExampleDefault uses the process-wide guard.
func ExampleDefault() {
	guard := replayguard.Default()
	fmt.Println(guard == replayguard.Default())
	// Output: true
}
