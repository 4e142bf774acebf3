package shared

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogOptions are the logging flags shared by every command.
type LogOptions struct {
	Debug     bool   `kong:"help='Enable debug logging'"`
	LogFormat string `kong:"default='console',enum='console,json',help='Log output format (console|json)'"`
}

// Logger builds the logger selected by the flags.
func (o LogOptions) Logger() zerolog.Logger {
	if o.LogFormat == "json" {
		return SetupStructuredLogger(o.Debug)
	}
	return SetupLogger(o.Debug)
}

// SetupLogger configures zerolog with pretty console output
func SetupLogger(debug bool) zerolog.Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stderr}, debug)
}

// SetupStructuredLogger configures zerolog for structured (JSON) output
func SetupStructuredLogger(debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return newLogger(os.Stderr, debug)
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}
