package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	"viewer/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath     string
	ServerPort string
	LogLevel   string

	ProfileAPIURL         string
	ProfileMaxAttempts    int
	ProfileAttemptTimeout time.Duration
	ProfileBackoffBase    time.Duration
	ProfileRetryNotFound  bool
	ServerErrorMin        int
	ServerErrorMax        int

	StandingsSource   string
	StandingsTimeout  time.Duration
	StandingsPageSize int
	StandingsCacheTTL time.Duration

	SessionTTL  time.Duration
	MaxSessions int

	AttemptRetention time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	var err error
	cfg := &Config{
		DBPath:          getEnv("DB_PATH", "viewer.db"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ProfileAPIURL:   getEnv("PROFILE_API_URL", "https://randomuser.me/api/"),
		StandingsSource: getEnv("STANDINGS_SOURCE", "standings.json"),
	}

	if cfg.ProfileMaxAttempts, err = getEnvInt("PROFILE_MAX_ATTEMPTS", constants.ProfileMaxAttempts); err != nil {
		return nil, err
	}
	if cfg.ProfileAttemptTimeout, err = getEnvDuration("PROFILE_ATTEMPT_TIMEOUT", constants.ProfileAttemptTimeout); err != nil {
		return nil, err
	}
	if cfg.ProfileBackoffBase, err = getEnvDuration("PROFILE_BACKOFF_BASE", constants.ProfileBackoffBase); err != nil {
		return nil, err
	}
	if cfg.ProfileRetryNotFound, err = getEnvBool("PROFILE_RETRY_NOT_FOUND", true); err != nil {
		return nil, err
	}
	if cfg.ServerErrorMin, err = getEnvInt("SERVER_ERROR_MIN", 500); err != nil {
		return nil, err
	}
	if cfg.ServerErrorMax, err = getEnvInt("SERVER_ERROR_MAX", 503); err != nil {
		return nil, err
	}
	if cfg.StandingsTimeout, err = getEnvDuration("STANDINGS_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.StandingsPageSize, err = getEnvInt("STANDINGS_PAGE_SIZE", constants.DefaultStandingsPageSize); err != nil {
		return nil, err
	}
	if cfg.StandingsCacheTTL, err = getEnvDuration("STANDINGS_CACHE_TTL", constants.StandingsCacheTTL); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getEnvDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MaxSessions, err = getEnvInt("MAX_SESSIONS", 1000); err != nil {
		return nil, err
	}
	if cfg.AttemptRetention, err = getEnvDuration("ATTEMPT_RETENTION", 7*24*time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("profile_api_url", cfg.ProfileAPIURL).
		Int("profile_max_attempts", cfg.ProfileMaxAttempts).
		Str("standings_source", cfg.StandingsSource).
		Dur("standings_cache_ttl", cfg.StandingsCacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ProfileMaxAttempts < 1 {
		return fmt.Errorf("PROFILE_MAX_ATTEMPTS must be at least 1, got %d", c.ProfileMaxAttempts)
	}
	if c.ProfileAttemptTimeout <= 0 {
		return fmt.Errorf("PROFILE_ATTEMPT_TIMEOUT must be positive")
	}
	if c.ProfileBackoffBase < 0 {
		return fmt.Errorf("PROFILE_BACKOFF_BASE must not be negative")
	}
	if c.ServerErrorMin > c.ServerErrorMax {
		return fmt.Errorf("SERVER_ERROR_MIN (%d) is greater than SERVER_ERROR_MAX (%d)", c.ServerErrorMin, c.ServerErrorMax)
	}
	if c.StandingsTimeout <= 0 {
		return fmt.Errorf("STANDINGS_TIMEOUT must be positive")
	}
	if c.StandingsPageSize < 1 {
		return fmt.Errorf("STANDINGS_PAGE_SIZE must be at least 1, got %d", c.StandingsPageSize)
	}
	if c.StandingsCacheTTL < 0 {
		return fmt.Errorf("STANDINGS_CACHE_TTL must not be negative")
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("MAX_SESSIONS must be at least 1, got %d", c.MaxSessions)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

var Module = fx.Provide(Load)
