package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// New builds the process logger. LOG_LEVEL picks the level and
// LOG_FORMAT=console switches from JSON to human-readable output on stderr.
func New() zerolog.Logger {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		return build(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, levelFromEnv())
	}
	return SetLevel(levelFromEnv())
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return build(os.Stdout, level)
}

func build(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)
}

// config.Load needs a logger, so the level is read straight from the
// environment instead of from *config.Config.
func levelFromEnv() zerolog.Level {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

var Module = fx.Provide(New)
