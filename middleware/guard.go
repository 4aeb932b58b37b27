package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrEthical07/replayguard"
)

// TokenSource verifies a raw bearer value and converts it into a replayguard.Token.
// *jwt.Manager implements it.
type TokenSource interface {
	Token(raw string) (replayguard.Token, error)
}

type tokenContextKey struct{}

// TokenFromContext returns the token accepted by RejectReplayed for this request.
func TokenFromContext(ctx context.Context) (replayguard.Token, bool) {
	tok, ok := ctx.Value(tokenContextKey{}).(replayguard.Token)
	return tok, ok
}

// RejectReplayed returns middleware that answers 401 for missing, invalid, or replayed
// bearer tokens and forwards everything else.
func RejectReplayed(guard *replayguard.Guard, source TokenSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guard == nil || source == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			tok, err := source.Token(raw)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if guard.IsReplayed(tok) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), tokenContextKey{}, tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireFresh is RejectReplayed against replayguard.Default.
func RequireFresh(source TokenSource) func(http.Handler) http.Handler {
	return RejectReplayed(replayguard.Default(), source)
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
