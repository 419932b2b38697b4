package logging

import (
	"context"
	"errors"
	"log/slog"
)

// Sink is one destination of a TeeHandler. Records below Min are not sent to it.
type Sink struct {
	Handler slog.Handler
	Min     slog.Leveler
}

func (s Sink) accepts(ctx context.Context, level slog.Level) bool {
	if s.Min != nil && level < s.Min.Level() {
		return false
	}
	return s.Handler.Enabled(ctx, level)
}

// TeeHandler sends each record to every sink that accepts its level.
type TeeHandler struct {
	sinks []Sink
}

// NewTeeHandler drops sinks without a handler.
func NewTeeHandler(sinks ...Sink) *TeeHandler {
	valid := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s.Handler != nil {
			valid = append(valid, s)
		}
	}
	return &TeeHandler{sinks: valid}
}

func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range t.sinks {
		if s.accepts(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes to every accepting sink and joins their errors.
func (t *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range t.sinks {
		if s.accepts(ctx, r.Level) {
			errs = append(errs, s.Handler.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (t *TeeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return t
	}
	return t.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (t *TeeHandler) each(fn func(slog.Handler) slog.Handler) *TeeHandler {
	sinks := make([]Sink, len(t.sinks))
	for i, s := range t.sinks {
		sinks[i] = Sink{Handler: fn(s.Handler), Min: s.Min}
	}
	return &TeeHandler{sinks: sinks}
}
