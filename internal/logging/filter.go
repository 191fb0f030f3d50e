package logging

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
)

// FilterHandler is a slog.Handler that drops records whose message matches
// one of a configured list of suppression patterns. It exists to silence
// known-noisy log lines from collaborating libraries (e.g. transient HTTP
// retry chatter) without resorting to global output interception.
type FilterHandler struct {
	inner    slog.Handler
	patterns []*regexp.Regexp
}

// NewFilterHandler compiles the suppression patterns and wraps inner.
// An empty pattern list yields a pass-through handler.
func NewFilterHandler(inner slog.Handler, patterns []string) (*FilterHandler, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid suppression pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &FilterHandler{inner: inner, patterns: compiled}, nil
}

// Enabled delegates to the wrapped handler.
func (h *FilterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle drops suppressed records and forwards the rest.
func (h *FilterHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, re := range h.patterns {
		if re.MatchString(record.Message) {
			return nil
		}
	}
	return h.inner.Handle(ctx, record)
}

// WithAttrs returns a FilterHandler whose wrapped handler carries the attrs.
func (h *FilterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &FilterHandler{inner: h.inner.WithAttrs(attrs), patterns: h.patterns}
}

// WithGroup returns a FilterHandler whose wrapped handler carries the group.
func (h *FilterHandler) WithGroup(name string) slog.Handler {
	return &FilterHandler{inner: h.inner.WithGroup(name), patterns: h.patterns}
}
