package replayguard

import (
	"testing"
	"time"
)

func TestTokenValidAt(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	tok := NewToken("w", base, base.Add(10*time.Second), nil, nil)

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before window", base.Add(-time.Nanosecond), false},
		{"at notValidBefore", base, true},
		{"inside window", base.Add(5 * time.Second), true},
		{"at notValidAfter", base.Add(10 * time.Second), false},
		{"after window", base.Add(11 * time.Second), false},
	}
	for _, tc := range cases {
		if got := tok.ValidAt(tc.at); got != tc.want {
			t.Fatalf("%s: ValidAt = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTokenExpiredBoundary(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	tok := NewToken("e", base, base.Add(time.Second), nil, nil)

	if tok.Expired(base.Add(time.Second)) {
		t.Fatal("expected token to be live at the notValidAfter instant")
	}
	if !tok.Expired(base.Add(time.Second + time.Nanosecond)) {
		t.Fatal("expected token to be expired after notValidAfter")
	}
}
