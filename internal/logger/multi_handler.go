package logger

import (
	"context"
	"errors"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// MultiHandler fans out log records to multiple slog.Handlers.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle calls every enabled handler and joins their errors.
func (m *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: handlers}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: handlers}
}

// SentryHandler turns log records at or above a level into Sentry events.
// An "err" attribute holding an error is captured as an exception.
type SentryHandler struct {
	level slog.Level
	attrs []slog.Attr
	hub   func() *sentry.Hub
}

func NewSentryHandler(level slog.Level) *SentryHandler {
	return &SentryHandler{level: level, hub: sentry.CurrentHub}
}

func (h *SentryHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *SentryHandler) Handle(ctx context.Context, record slog.Record) error {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = h.hub()
	}
	if hub == nil || hub.Client() == nil {
		return nil
	}

	extra := sentry.Context{}
	var captured error
	collect := func(a slog.Attr) bool {
		if err, ok := a.Value.Any().(error); ok && (a.Key == "err" || a.Key == "error") {
			captured = err
			return true
		}
		extra[a.Key] = a.Value.String()
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	record.Attrs(collect)

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetContext("log", extra)
		if captured != nil {
			scope.SetTag("log.message", record.Message)
			hub.CaptureException(captured)
			return
		}
		hub.CaptureMessage(record.Message)
	})
	return nil
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *SentryHandler) WithGroup(string) slog.Handler {
	return h
}
