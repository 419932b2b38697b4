package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewZerolog_WritesToFile(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, "debug", "database")

	log.Debug().Str("path", "docs.db").Msg("Using local SQLite DB")

	out := buf.String()
	assert.Contains(t, out, "Using local SQLite DB")
	assert.Contains(t, out, "component=database")
	assert.Contains(t, out, "path=docs.db")
	assert.NotContains(t, out, "\x1b[", "file output has no colors")
}

func TestNewZerolog_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, "warn", "influx")

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseZerologLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"Warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseZerologLevel(in), in)
	}
}
