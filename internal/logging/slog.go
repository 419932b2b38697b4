package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Swapped by tests to capture console output.
var osStdout io.Writer = os.Stdout

// SlogManager owns the process logger.
type SlogManager struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logger. With a file every record at level goes to
// it and warnings are echoed to stdout; without one stdout gets everything at
// level. A non-nil provider adds its attributes to every record.
func (m *SlogManager) Setup(file io.Writer, level string, provider ContextProvider) {
	m.level = parseLevel(level)

	handlerOpts := &slog.HandlerOptions{
		Level: m.level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var sinks []Sink
	if file != nil {
		sinks = append(sinks,
			Sink{Handler: slog.NewTextHandler(file, handlerOpts)},
			Sink{Handler: slog.NewTextHandler(osStdout, handlerOpts), Min: slog.LevelWarn},
		)
	} else {
		sinks = append(sinks, Sink{Handler: slog.NewTextHandler(osStdout, handlerOpts)})
	}

	m.logger = slog.New(NewContextHandler(NewTeeHandler(sinks...), provider))
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Level returns the level set by Setup.
func (m *SlogManager) Level() slog.Level {
	return m.level
}

// With returns the logger with a component attribute, the way packages tag their records.
func (m *SlogManager) With(component string) *slog.Logger {
	return m.Logger().With("component", component)
}
