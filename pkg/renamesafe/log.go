package renamesafe

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the library's console logger, filtered to the given
// level and tagged with a lib field so callers can tell its output apart
// from their own.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("lib", "renamesafe").
		Logger()
}

// NewTestLogger maps a -v style verbosity count onto a log level: quiet
// by default, info at 1, debug at 2, trace beyond that.
func NewTestLogger(w io.Writer, verbose int) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case verbose >= 3:
		level = zerolog.TraceLevel
	case verbose == 2:
		level = zerolog.DebugLevel
	case verbose == 1:
		level = zerolog.InfoLevel
	}
	return NewLogger(w, level)
}

// LogLevelFromString parses a level name, case-insensitively.
func LogLevelFromString(levelStr string) (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(levelStr))
}

// DefaultLogger logs warnings and above to stderr.
func DefaultLogger() zerolog.Logger {
	return NewLogger(os.Stderr, zerolog.WarnLevel)
}
