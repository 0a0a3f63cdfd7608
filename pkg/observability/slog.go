package observability

import (
	"context"
	"log/slog"
	"sort"
)

// SlogObserver writes events as slog records. The event type is the message,
// the emitting component goes under "component" and Data is grouped under
// "data" with its keys sorted.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver logs to logger, or to slog.Default when logger is nil.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := event.Level.SlogLevel()
	if !o.logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, 2)
	if event.Source != "" {
		attrs = append(attrs, slog.String("component", event.Source))
	}
	if len(event.Data) > 0 {
		keys := make([]string, 0, len(event.Data))
		for key := range event.Data {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		data := make([]any, 0, len(keys))
		for _, key := range keys {
			data = append(data, slog.Any(key, event.Data[key]))
		}
		attrs = append(attrs, slog.Group("data", data...))
	}

	o.logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}
