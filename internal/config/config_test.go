package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ProfileAPIURL != "https://randomuser.me/api/" {
		t.Errorf("unexpected profile url %q", cfg.ProfileAPIURL)
	}
	if cfg.ProfileMaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.ProfileMaxAttempts)
	}
	if cfg.ProfileAttemptTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.ProfileAttemptTimeout)
	}
	if cfg.ProfileBackoffBase != time.Second {
		t.Errorf("expected 1s backoff, got %v", cfg.ProfileBackoffBase)
	}
	if !cfg.ProfileRetryNotFound {
		t.Error("expected not-found retries to be enabled by default")
	}
	if cfg.ServerErrorMin != 500 || cfg.ServerErrorMax != 503 {
		t.Errorf("unexpected server error range %d-%d", cfg.ServerErrorMin, cfg.ServerErrorMax)
	}
	if cfg.StandingsPageSize != 5 {
		t.Errorf("expected page size 5, got %d", cfg.StandingsPageSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PROFILE_MAX_ATTEMPTS", "5")
	t.Setenv("PROFILE_BACKOFF_BASE", "250ms")
	t.Setenv("PROFILE_RETRY_NOT_FOUND", "false")
	t.Setenv("STANDINGS_CACHE_TTL", "0s")

	cfg, err := Load(zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ProfileMaxAttempts != 5 {
		t.Errorf("expected 5 attempts, got %d", cfg.ProfileMaxAttempts)
	}
	if cfg.ProfileBackoffBase != 250*time.Millisecond {
		t.Errorf("expected 250ms backoff, got %v", cfg.ProfileBackoffBase)
	}
	if cfg.ProfileRetryNotFound {
		t.Error("expected not-found retries to be disabled")
	}
	if cfg.StandingsCacheTTL != 0 {
		t.Errorf("expected cache ttl 0, got %v", cfg.StandingsCacheTTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PROFILE_MAX_ATTEMPTS", "0"},
		{"PROFILE_MAX_ATTEMPTS", "three"},
		{"PROFILE_ATTEMPT_TIMEOUT", "0s"},
		{"PROFILE_BACKOFF_BASE", "-1s"},
		{"PROFILE_RETRY_NOT_FOUND", "maybe"},
		{"SERVER_ERROR_MIN", "600"},
		{"STANDINGS_PAGE_SIZE", "0"},
		{"MAX_SESSIONS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)
			if _, err := Load(zerolog.Nop()); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
