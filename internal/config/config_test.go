package config

import "testing"

func TestLoadIncludesEngineAndTrafficDefaults(t *testing.T) {
	t.Setenv("ENGINE_URL", "")
	t.Setenv("ENGINE_TIMEOUT_SECONDS", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")
	t.Setenv("API_RATE_LIMIT_BURST", "")
	t.Setenv("API_MAX_CONCURRENT", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg := Load()
	if cfg.EngineURL != "http://localhost:8000" {
		t.Fatalf("expected default engine url, got %q", cfg.EngineURL)
	}
	if cfg.EngineTimeoutSeconds != 120 {
		t.Fatalf("expected default engine timeout 120, got %d", cfg.EngineTimeoutSeconds)
	}
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected default rate limit 20 rps, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.APIRateLimitBurst != 40 {
		t.Fatalf("expected default burst 40, got %d", cfg.APIRateLimitBurst)
	}
	if cfg.APIMaxConcurrent != 64 {
		t.Fatalf("expected default max concurrent 64, got %d", cfg.APIMaxConcurrent)
	}
	if cfg.MaxUploadBytes != 50<<20 {
		t.Fatalf("expected default upload cap 50MiB, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("ENGINE_URL", "http://engine:9000")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@db:5432/openrecord")
	t.Setenv("NATS_SUBJECT_PREFIX", "review")

	cfg := Load()
	if cfg.EngineURL != "http://engine:9000" {
		t.Fatalf("expected engine url override, got %q", cfg.EngineURL)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.PostgresDSN == "" {
		t.Fatal("expected dsn override to be read")
	}
	if cfg.NATSSubjectPrefix != "review" {
		t.Fatalf("expected subject prefix override, got %q", cfg.NATSSubjectPrefix)
	}
}

func TestLoadFallsBackOnMalformedNumbers(t *testing.T) {
	t.Setenv("API_RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("ENGINE_TIMEOUT_SECONDS", "soon")

	cfg := Load()
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected fallback rate limit, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.EngineTimeoutSeconds != 120 {
		t.Fatalf("expected fallback engine timeout, got %d", cfg.EngineTimeoutSeconds)
	}
}
