package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// parseZerologLevel converts a string log level to a zerolog.Level.
func parseZerologLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewZerolog returns the logger used by the database and metrics layers. It
// writes console-formatted records to file, or to stdout when file is nil.
func NewZerolog(file io.Writer, level string, component string) zerolog.Logger {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	var w io.Writer
	if file != nil {
		w = zerolog.ConsoleWriter{Out: file, TimeFormat: time.RFC3339, NoColor: true}
	} else {
		w = zerolog.ConsoleWriter{Out: osStdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(parseZerologLevel(level)).
		With().Timestamp().Str("component", component).
		Logger()
}
