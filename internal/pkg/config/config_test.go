package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.Backend.URL != "http://localhost:8080/api" {
		t.Fatalf("unexpected backend url %q", cfg.Backend.URL)
	}
	if cfg.Session.Store != StoreRedis || cfg.Session.CookieName != "vet_sid" {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %v", cfg.Session.TTL)
	}
	if !cfg.Pretty() {
		t.Fatalf("development env should log pretty")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":           "production",
		"BACKEND_URL":   "https://clinic.example/api",
		"SESSION_STORE": "mongo",
		"SESSION_TTL":   "2h",
		"REDIS_DB":      "3",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Pretty() {
		t.Fatalf("production must log json")
	}
	if cfg.Session.Store != StoreMongo || cfg.Session.TTL != 2*time.Hour || cfg.Redis.DB != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestValidate_UnknownStore(t *testing.T) {
	cfg := &Config{Backend: BackendConfig{URL: "http://x"}, Session: SessionConfig{Store: "etcd"}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}
