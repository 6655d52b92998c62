package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes events to an slog.Logger.
// Useful to see changes in the console while stepping.
type SlogAdapter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogAdapter creates a SlogAdapter logging at Debug level.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of the adapter logging at level.
func (a *SlogAdapter) WithLevel(level slog.Level) *SlogAdapter {
	return &SlogAdapter{logger: a.logger, level: level}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session", event.SessionID),
		slog.String("category", event.Category.String()),
	}

	if event.Peripheral != "" {
		attrs = append(attrs,
			slog.String("peripheral", event.Peripheral),
			slog.String("register", event.Register),
			slog.String("address", fmt.Sprintf("%#x", event.Address)),
		)
	}

	switch {
	case event.Value != nil:
		attrs = append(attrs,
			slog.String("format", event.Value.Format),
			slog.String("value", event.Value.Current),
		)
		if event.Value.Previous != "" {
			attrs = append(attrs, slog.String("previous", event.Value.Previous))
		}
	case event.Command != nil:
		attrs = append(attrs, slog.String("command", event.Command.Name))
		if event.Command.Args != "" {
			attrs = append(attrs, slog.String("args", event.Command.Args))
		}
		if event.Command.Error != "" {
			attrs = append(attrs, slog.String("error", event.Command.Error))
		}
	case event.Error != nil:
		attrs = append(attrs, slog.String("error", event.Error.Message))
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), a.level, "watch", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
