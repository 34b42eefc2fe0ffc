package constants

import "time"

const (
	RequestTimeout  = 30 * time.Second
	DatabaseTimeout = 5 * time.Second
)

const (
	ProfileMaxAttempts    = 3
	ProfileAttemptTimeout = 5 * time.Second
	ProfileBackoffBase    = 1 * time.Second
)

const (
	DefaultStandingsPageSize = 5
	StandingsCacheTTL        = 5 * time.Minute
)

const (
	HTTPMaxConnsPerHost     = 100
	HTTPMaxIdleConnDuration = 1 * time.Minute
	HTTPMaxResponseBodySize = 4 << 20
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
