package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.AirspaceAPIURL == "" {
		t.Fatalf("expected default airspace url")
	}
	// the client appends /airspaces itself
	if strings.HasSuffix(cfg.AirspaceAPIURL, "/airspaces") {
		t.Fatalf("airspace base url must not end in /airspaces: %q", cfg.AirspaceAPIURL)
	}
	if cfg.AirspaceTTLSec <= 0 {
		t.Fatalf("expected default airspace ttl")
	}
	if cfg.MaxIGCSizeBytes <= 0 {
		t.Fatalf("expected default igc size limit")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AIRSPACE_API_URL", "https://airspace.test")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.AirspaceAPIURL != "https://airspace.test" {
		t.Fatalf("expected override airspace url")
	}
}
