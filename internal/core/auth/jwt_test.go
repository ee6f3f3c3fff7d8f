package auth

import (
	"testing"
	"time"
)

func newTestJWTer(ttl time.Duration) *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: ttl}
}

func TestIssueAndParse(t *testing.T) {
	j := newTestJWTer(time.Hour)
	tok, err := j.Issue("uid-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UID != "uid-1" || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "uid-1" {
		t.Fatalf("subject should carry uid, got %q", claims.Subject)
	}
}

func TestParseExpiredToken(t *testing.T) {
	// 负 TTL 再加上 60s leeway，取 -2m 确保过期
	j := newTestJWTer(-2 * time.Minute)
	tok, err := j.Issue("uid-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := j.Parse(tok); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestParseWrongSecret(t *testing.T) {
	j := newTestJWTer(time.Hour)
	tok, err := j.Issue("uid-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := &JWTer{Secret: []byte("other"), Issuer: "test", TTL: time.Hour}
	if _, err := other.Parse(tok); err == nil {
		t.Fatalf("expected bad signature to fail")
	}
}

func TestParseWrongIssuer(t *testing.T) {
	j := newTestJWTer(time.Hour)
	tok, err := j.Issue("uid-1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}
	if _, err := other.Parse(tok); err == nil {
		t.Fatalf("expected issuer mismatch to fail")
	}
}

func TestParseGarbage(t *testing.T) {
	j := newTestJWTer(time.Hour)
	if _, err := j.Parse("not.a.token"); err == nil {
		t.Fatalf("expected malformed token to fail")
	}
}
