package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "SESSION_BACKEND", "SESSION_TTL", "CLINIC_TIMEZONE", "CORS_ALLOWED_ORIGINS", "GENERATION_PROBE", "CHAT_RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("expected in-memory stores by default, got %s", cfg.DatabaseURL)
	}
	if cfg.UseRedisSessions() {
		t.Fatalf("expected memory session backend by default")
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.GenerationProbe {
		t.Fatalf("expected generation probe disabled by default")
	}
	if cfg.ChatRateLimitRPS != 2 {
		t.Fatalf("expected default chat rate, got %v", cfg.ChatRateLimitRPS)
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.ClinicTimezone != "Africa/Lagos" {
		t.Fatalf("expected default clinic timezone, got %s", cfg.ClinicTimezone)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("SESSION_LOCK_TIMEOUT", "2s")
	t.Setenv("GENERATION_PROBE", "true")
	t.Setenv("CHAT_RATE_LIMIT_RPS", "0.5")
	t.Setenv("CHAT_RATE_LIMIT_BURST", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("STAFF_ALERT_EMAIL", "staff@example.com")

	cfg := Load()
	if cfg.Port != "9090" || cfg.Env != "production" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected basics: %+v", cfg)
	}
	if !cfg.UseRedisSessions() {
		t.Fatalf("expected redis session backend")
	}
	if cfg.SessionLockTimeout != 2*time.Second {
		t.Fatalf("expected lock timeout override, got %s", cfg.SessionLockTimeout)
	}
	if !cfg.GenerationProbe {
		t.Fatalf("expected generation probe enabled")
	}
	if cfg.ChatRateLimitRPS != 0.5 || cfg.ChatRateLimitBurst != 3 {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.ChatRateLimitRPS, cfg.ChatRateLimitBurst)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.StaffAlertEmail != "staff@example.com" {
		t.Fatalf("unexpected staff alert email %s", cfg.StaffAlertEmail)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{ClinicTimezone: "Not/AZone"}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback")
	}
	cfg.ClinicTimezone = "UTC"
	if cfg.Location().String() != "UTC" {
		t.Fatalf("expected UTC location")
	}
}
