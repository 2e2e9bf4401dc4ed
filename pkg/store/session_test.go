package store

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedisSessionStoreLifecycle(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisSessionStore(redis.Addr(), "", time.Minute)

	token, err := s.NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	ok, err := s.Valid(token)
	if err != nil || !ok {
		t.Fatalf("expected valid session, got ok=%v err=%v", ok, err)
	}
	if err := s.Delete(token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	ok, err = s.Valid(token)
	if err != nil {
		t.Fatalf("valid after delete: %v", err)
	}
	if ok {
		t.Fatalf("deleted session should be invalid")
	}
}

func TestRedisSessionStoreExpiry(t *testing.T) {
	redis := miniredis.RunT(t)
	s := NewRedisSessionStore(redis.Addr(), "", time.Minute)

	token, err := s.NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	redis.FastForward(2 * time.Minute)
	ok, err := s.Valid(token)
	if err != nil {
		t.Fatalf("valid after expiry: %v", err)
	}
	if ok {
		t.Fatalf("expired session should be invalid")
	}
}

func TestJWTSessionStoreIssuesVerifiableTokens(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new jwt store: %v", err)
	}
	token, err := s.NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	ok, err := s.Valid(token)
	if err != nil || !ok {
		t.Fatalf("expected valid token, got ok=%v err=%v", ok, err)
	}
	ok, err = s.Valid(token + "tampered")
	if err != nil {
		t.Fatalf("valid tampered: %v", err)
	}
	if ok {
		t.Fatalf("tampered token should be invalid")
	}
}

func TestJWTSessionStoreRejectsExpired(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("new jwt store: %v", err)
	}
	token, err := s.NewSession()
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	ok, err := s.Valid(token)
	if err != nil {
		t.Fatalf("valid expired: %v", err)
	}
	if ok {
		t.Fatalf("expired token should be invalid")
	}
}

func TestJWTSessionStoreRequiresSecret(t *testing.T) {
	if _, err := NewJWTSessionStore("", time.Minute); err == nil {
		t.Fatalf("expected constructor error for empty secret")
	}
}
