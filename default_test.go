package replayguard

import (
	"fmt"
	"testing"
	"time"
)

func TestDefaultIsShared(t *testing.T) {
	first := Default()
	second := Default()

	if first == nil || first != second {
		t.Fatal("expected Default to return one shared guard")
	}

	// Default outlives the test, so the ID must be unique across -count runs.
	tok := makeToken(fmt.Sprintf("singleton-%s-%d", t.Name(), time.Now().UnixNano()), -20, 5)
	if first.IsReplayed(tok) {
		t.Fatal("expected first handle to accept the token")
	}
	if !second.IsReplayed(tok) {
		t.Fatal("expected second handle to see the first handle's insertion")
	}
}

func TestSeparateGuardsDoNotShare(t *testing.T) {
	a := newTestGuard(t, DefaultHitsBeforePurge)
	b := newTestGuard(t, DefaultHitsBeforePurge)
	tok := makeToken("isolated", -20, 5)

	if a.IsReplayed(tok) || b.IsReplayed(tok) {
		t.Fatal("expected independent guards to each accept the token")
	}
}
