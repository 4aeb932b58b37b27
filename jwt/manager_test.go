package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func newEdKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	return pub, priv
}

func newEdManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	pub, priv := newEdKeys(t)
	cfg.SigningMethod = MethodEd25519
	cfg.PrivateKey = priv
	cfg.PublicKey = pub
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestMintThenTokenMapsClaims(t *testing.T) {
	m := newEdManager(t, Config{TTL: time.Minute, Issuer: "replayguard", Audience: "api"})

	nbf := time.Now().Add(-time.Second).Truncate(time.Second)
	raw, err := m.MintWithID("abc-123", "user-1", nbf, time.Minute)
	if err != nil {
		t.Fatalf("MintWithID failed: %v", err)
	}

	tok, err := m.Token(raw)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok.ID != "abc-123" {
		t.Fatalf("expected ID abc-123, got %q", tok.ID)
	}
	if !tok.NotValidBefore.Equal(nbf) {
		t.Fatalf("expected NotValidBefore %v, got %v", nbf, tok.NotValidBefore)
	}
	if !tok.NotValidAfter.Equal(nbf.Add(time.Minute)) {
		t.Fatalf("expected NotValidAfter %v, got %v", nbf.Add(time.Minute), tok.NotValidAfter)
	}
	if string(tok.Payload) != raw {
		t.Fatal("expected payload to be the raw token")
	}
	if string(tok.Aux) != "user-1" {
		t.Fatalf("expected aux to carry subject, got %q", tok.Aux)
	}
}

func TestMintUsesFreshUUIDs(t *testing.T) {
	m, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: []byte("0123456789abcdef0123456789abcdef")})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	a, err := m.Mint("u")
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	b, err := m.Mint("u")
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	ta, err := m.Token(a)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	tb, err := m.Token(b)
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if ta.ID == tb.ID {
		t.Fatalf("expected distinct jti values, both %q", ta.ID)
	}
	if len(ta.ID) != 36 {
		t.Fatalf("expected uuid jti, got %q", ta.ID)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := newEdManager(t, Config{})

	raw, err := m.MintWithID("old", "", time.Now().Add(-2*time.Minute), time.Minute)
	if err != nil {
		t.Fatalf("MintWithID failed: %v", err)
	}
	if _, err := m.Token(raw); !errors.Is(err, gjwt.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseRejectsMissingJTI(t *testing.T) {
	m := newEdManager(t, Config{})

	raw, err := m.MintWithID("", "", time.Now(), time.Minute)
	if err != nil {
		t.Fatalf("MintWithID failed: %v", err)
	}
	if _, err := m.Token(raw); !errors.Is(err, ErrMissingJTI) {
		t.Fatalf("expected ErrMissingJTI, got %v", err)
	}
}

func TestParseRejectsMissingExpiry(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	m, err := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: secret})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	raw, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, gjwt.RegisteredClaims{ID: "no-exp"}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	if _, err := m.Token(raw); err == nil {
		t.Fatal("expected token without exp to be rejected")
	}
}

func TestParseRejectsAlgorithmConfusion(t *testing.T) {
	pub, priv := newEdKeys(t)
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	claims := gjwt.RegisteredClaims{
		ID:        "hs",
		ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	raw, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims).SignedString([]byte(pub))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	if _, err := m.Parse(raw); err == nil {
		t.Fatal("expected HS256 token to be rejected by an Ed25519 manager")
	}
}

func TestParseRejectsTampering(t *testing.T) {
	m := newEdManager(t, Config{})

	raw, err := m.Mint("user")
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	parts := strings.Split(raw, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "AA"
	if _, err := m.Parse(strings.Join(parts, ".")); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestParseEnforcesIssuerAndAudience(t *testing.T) {
	pub, priv := newEdKeys(t)
	issuer, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub, Issuer: "a", Audience: "x"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	verifier, err := NewManager(Config{SigningMethod: MethodEd25519, PublicKey: pub, Issuer: "b", Audience: "x"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	raw, err := issuer.Mint("user")
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if _, err := verifier.Parse(raw); !errors.Is(err, gjwt.ErrTokenInvalidIssuer) {
		t.Fatalf("expected ErrTokenInvalidIssuer, got %v", err)
	}
}

func TestVerifyKeysSelectByKid(t *testing.T) {
	pub1, priv1 := newEdKeys(t)
	pub2, _ := newEdKeys(t)

	signer, err := NewManager(Config{
		SigningMethod: MethodEd25519,
		PrivateKey:    priv1,
		KeyID:         "k1",
		VerifyKeys:    map[string][]byte{"k1": pub1, "k2": pub2},
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	raw, err := signer.Mint("user")
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	if _, err := signer.Parse(raw); err != nil {
		t.Fatalf("expected kid k1 to verify, got %v", err)
	}

	other, err := NewManager(Config{
		SigningMethod: MethodEd25519,
		VerifyKeys:    map[string][]byte{"k2": pub2},
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, err := other.Parse(raw); err == nil {
		t.Fatal("expected unknown kid to be rejected")
	}
}

func TestMintWithoutPrivateKey(t *testing.T) {
	pub, _ := newEdKeys(t)
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, err := m.Mint("user"); !errors.Is(err, ErrSigningUnavailable) {
		t.Fatalf("expected ErrSigningUnavailable, got %v", err)
	}
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	pub, _ := newEdKeys(t)
	cases := []struct {
		name string
		cfg  Config
	}{
		{"unknown method", Config{SigningMethod: "rs256"}},
		{"hs256 without secret", Config{SigningMethod: MethodHS256}},
		{"ed25519 without keys", Config{SigningMethod: MethodEd25519}},
		{"negative ttl", Config{SigningMethod: MethodEd25519, PublicKey: pub, TTL: -time.Second}},
		{"excessive leeway", Config{SigningMethod: MethodEd25519, PublicKey: pub, Leeway: time.Hour}},
		{"kid not in set", Config{SigningMethod: MethodEd25519, KeyID: "x", VerifyKeys: map[string][]byte{"y": pub}}},
		{"bad public key", Config{SigningMethod: MethodEd25519, PublicKey: []byte("short")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestToTokenFallsBackToIssuedAt(t *testing.T) {
	iat := time.Unix(1_700_000_000, 0)
	claims := &Claims{RegisteredClaims: gjwt.RegisteredClaims{
		ID:        "x",
		IssuedAt:  gjwt.NewNumericDate(iat),
		ExpiresAt: gjwt.NewNumericDate(iat.Add(time.Minute)),
	}}

	tok, err := ToToken(claims, []byte("raw"))
	if err != nil {
		t.Fatalf("ToToken failed: %v", err)
	}
	if !tok.NotValidBefore.Equal(iat) {
		t.Fatalf("expected NotValidBefore to fall back to iat, got %v", tok.NotValidBefore)
	}
	if tok.Aux != nil {
		t.Fatalf("expected nil aux without subject, got %q", tok.Aux)
	}
}
