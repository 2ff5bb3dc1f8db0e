package ui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bamsammich/xfer/internal/event"
)

// MultiHandler fans each record out to every handler that accepts its level.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler returns a handler writing to all of hs.
func NewMultiHandler(hs ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // hugeParam: slog.Handler interface passes Record by value
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: hs}
}

// LogEvent writes ev to logger as a debug "xfer.event" record. The CLI
// uses it to mirror the event stream into the --log file.
func LogEvent(ctx context.Context, logger *slog.Logger, ev event.Event) {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.String("path", ev.Path),
		slog.String("destination", ev.Destination),
		slog.Int64("size", ev.Size),
	}
	if ev.Attempt > 0 {
		attrs = append(attrs, slog.Int("attempt", ev.Attempt), slog.Duration("delay", ev.Delay))
	}
	if ev.Error != nil {
		attrs = append(attrs, slog.String("error", ev.Error.Error()))
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "xfer.event", attrs...)
}
