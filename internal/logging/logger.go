// Package logging configures the global zerolog logger and emits the
// one-line startup summary each binary logs before serving.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelEnv controls the log level: debug, info, warn, error (default: info).
const LevelEnv = "TRENDGENIE_LOG_LEVEL"

// Init sets the global level from TRENDGENIE_LOG_LEVEL and writes
// human-readable output to stderr.
func Init() {
	InitWithWriter(os.Stderr)
}

// InitWithWriter is Init with a custom destination.
func InitWithWriter(w io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(os.Getenv(LevelEnv)))
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
