package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog Logger writing to stderr so that stdout stays
// free for command output.
// APP_ENV=dev (or development) uses a human-friendly console writer.
func NewLogger(env string) zerolog.Logger {
	return newLogger(env, os.Stderr)
}

func newLogger(env string, w io.Writer) zerolog.Logger {
	l := zerolog.New(w).With().Timestamp().Logger()
	if env == "dev" || env == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return l
}

// SetLevel parses lvl ("debug", "info", ...) and applies it globally.
// Unknown values leave the current level untouched.
func SetLevel(lvl string) {
	if lvl == "" {
		return
	}
	if parsed, err := zerolog.ParseLevel(lvl); err == nil {
		zerolog.SetGlobalLevel(parsed)
	}
}
