package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// LogHandler returns a Handler that writes every event to logger at level.
func LogHandler(logger *slog.Logger, level slog.Level) Handler {
	return func(subject any, ev types.Event) error {
		attrs := []slog.Attr{
			slog.String("kind", ev.Kind.String()),
			slog.String("subject", describe(subject)),
		}
		if ev.OldName != "" {
			attrs = append(attrs, slog.String("old_name", ev.OldName))
		}
		if ev.NewName != "" {
			attrs = append(attrs, slog.String("new_name", ev.NewName))
		}
		logger.LogAttrs(context.Background(), level, "containment event", attrs...)
		return nil
	}
}

// describe names a subject for logs without dumping its contents.
func describe(subject any) string {
	type identified interface{ ID() string }
	if v, ok := subject.(identified); ok {
		return v.ID()
	}
	if _, name, ok := types.LocationOf(subject); ok && name != "" {
		return name
	}
	return fmt.Sprintf("%T", subject)
}
