package replayguard

import "time"

// Token is a single-use security token as seen by the replay cache.
//
// The validity window is half-open: [NotValidBefore, NotValidAfter). Payload and Aux are
// carried alongside the identity but never interpreted. Two tokens with the same ID occupy the
// same cache slot regardless of their windows.
type Token struct {
	ID             string
	NotValidBefore time.Time
	NotValidAfter  time.Time
	Payload        []byte
	Aux            []byte
}

// NewToken builds a Token with private copies of payload and aux.
func NewToken(id string, notValidBefore, notValidAfter time.Time, payload, aux []byte) Token {
	return Token{
		ID:             id,
		NotValidBefore: notValidBefore,
		NotValidAfter:  notValidAfter,
		Payload:        cloneBytes(payload),
		Aux:            cloneBytes(aux),
	}
}

// Expired reports whether the token's window closed strictly before now.
func (t Token) Expired(now time.Time) bool {
	return t.NotValidAfter.Before(now)
}

// ValidAt reports whether now falls inside [NotValidBefore, NotValidAfter).
// The replay cache never calls it; it is offered to hosts that check windows before IsReplayed.
func (t Token) ValidAt(now time.Time) bool {
	return !now.Before(t.NotValidBefore) && now.Before(t.NotValidAfter)
}

func (t Token) clone() *Token {
	out := t
	out.Payload = cloneBytes(t.Payload)
	out.Aux = cloneBytes(t.Aux)
	return &out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
