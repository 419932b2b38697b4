package logging

import (
	"context"
	"log/slog"
)

type attrsKey struct{}

// ContextWith returns a copy of ctx carrying attrs. Records logged with the
// *Context methods of a logger built by Setup include them.
func ContextWith(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev := attrsFrom(ctx)
	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, attrsKey{}, merged)
}

func attrsFrom(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}

// ContextProvider returns attributes evaluated at the time of each record.
type ContextProvider func() []slog.Attr

// ContextHandler adds the attributes carried by the record's context, then
// those of the provider, before passing the record on.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

// NewContextHandler wraps inner. provider may be nil.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{inner: inner, provider: provider}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(attrsFrom(ctx)...)
	if h.provider != nil {
		r.AddAttrs(h.provider()...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), provider: h.provider}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), provider: h.provider}
}
