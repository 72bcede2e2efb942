package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/salvaclients/vet-admin/internal/core/domain"
)

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func newStore(t *testing.T) (*CredentialStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	s := NewCredentialStore(client, 24*time.Hour)
	s.now = func() time.Time { return fixedNow }
	return s, mr
}

func tokenExpiring(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("backend"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()
	want := domain.Session{
		Token: "t1",
		User:  domain.User{ID: 1, Username: "admin", FullName: "Admin", Role: domain.RoleAdmin},
	}

	if err := s.Save(ctx, "sid-1", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx, "sid-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != want {
		t.Fatalf("round trip mismatch: got %+v want %+v", *got, want)
	}

	raw, err := mr.Get(keyPrefix + "sid-1")
	if err != nil {
		t.Fatalf("expected key %s%s: %v", keyPrefix, "sid-1", err)
	}
	var stored domain.Session
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.Token != "t1" {
		t.Fatalf("token and user must be one JSON value, got %q", raw)
	}
}

func TestCredentialStore_MissingIsNoSession(t *testing.T) {
	s, _ := newStore(t)
	if _, err := s.Load(context.Background(), "nobody"); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestCredentialStore_ClearIsIdempotent(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()
	_ = s.Save(ctx, "sid-1", domain.Session{Token: "t1"})

	for i := 0; i < 2; i++ {
		if err := s.Clear(ctx, "sid-1"); err != nil {
			t.Fatalf("clear #%d: %v", i+1, err)
		}
	}
	if mr.Exists(keyPrefix + "sid-1") {
		t.Fatalf("key must be gone after clear")
	}
}

func TestCredentialStore_TTLFollowsTokenExpiry(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	token := tokenExpiring(t, fixedNow.Add(10*time.Minute))
	if err := s.Save(ctx, "sid-1", domain.Session{Token: token}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := mr.TTL(keyPrefix + "sid-1"); got != 10*time.Minute {
		t.Fatalf("expected ttl 10m, got %v", got)
	}

	mr.FastForward(11 * time.Minute)
	if _, err := s.Load(ctx, "sid-1"); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expired record must read as no session, got %v", err)
	}
}

func TestCredentialStore_FallbackTTL(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "opaque", domain.Session{Token: "t1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := mr.TTL(keyPrefix + "opaque"); got != 24*time.Hour {
		t.Fatalf("opaque token: expected fallback ttl, got %v", got)
	}

	past := tokenExpiring(t, fixedNow.Add(-time.Minute))
	if err := s.Save(ctx, "stale", domain.Session{Token: past}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := mr.TTL(keyPrefix + "stale"); got != 24*time.Hour {
		t.Fatalf("past exp: expected fallback ttl, got %v", got)
	}
}

func TestCredentialStore_SaveUntil(t *testing.T) {
	s, mr := newStore(t)
	if err := s.SaveUntil(context.Background(), "sid-1", domain.Session{Token: "v1.sealed"}, fixedNow.Add(5*time.Minute)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := mr.TTL(keyPrefix + "sid-1"); got != 5*time.Minute {
		t.Fatalf("expected ttl 5m, got %v", got)
	}
}

func TestCredentialStore_ServerDown(t *testing.T) {
	s, mr := newStore(t)
	mr.Close()

	_, err := s.Load(context.Background(), "sid-1")
	if err == nil || errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("an unreachable store is an error, not an absent session: %v", err)
	}
	if err := s.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_ = client.Close()

	mr.Close()
	if _, err := Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: time.Second}); err == nil {
		t.Fatalf("expected ping failure against a stopped server")
	}
}
