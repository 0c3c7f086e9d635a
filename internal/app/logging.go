package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dshills/cartstore/internal/config"
	"github.com/dshills/cartstore/internal/event"
	"github.com/dshills/cartstore/internal/event/dispatch"
)

// NewLogger builds the application logger from the configuration.
// Output defaults to os.Stderr.
func NewLogger(w io.Writer, cfg config.Config) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level()}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, config.FormatJSON) {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("component", "cartstore")
}

// LogListener logs every dispatched event at info level.
func LogListener(logger *slog.Logger) dispatch.Listener {
	return dispatch.ListenerFunc(func(ctx context.Context, ev event.Event) error {
		attrs := []slog.Attr{
			slog.String("event_id", ev.ID.String()),
			slog.String("event_type", ev.Type.String()),
		}
		if ev.Payload != "" {
			attrs = append(attrs, slog.String("payload", ev.Payload))
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "event dispatched", attrs...)
		return nil
	})
}
