// Package observability provides event-based observability for the form
// engine. Fields, lists, forms and sources emit lifecycle events to an
// Observer; the slog-backed observer turns them into structured log records.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity. Values follow the OpenTelemetry
// SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // DEBUG range, maps to slog.LevelDebug
	LevelInfo    Level = 9  // INFO range, maps to slog.LevelInfo
	LevelWarning Level = 13 // WARN range, maps to slog.LevelWarn
	LevelError   Level = 17 // ERROR range, maps to slog.LevelError
)

// String returns the severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps this level to the corresponding slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType identifies the kind of event ("field.validate", "form.submit.start").
type EventType string

const (
	EventFieldUpdate   EventType = "field.update"
	EventFieldValidate EventType = "field.validate"
	EventFieldReset    EventType = "field.reset"
	EventFieldDefault  EventType = "field.default"
	EventFieldError    EventType = "field.error"

	EventListReinitialize EventType = "list.reinitialize"
	EventListUpdate       EventType = "list.update"
	EventListValidate     EventType = "list.validate"
	EventListReset        EventType = "list.reset"

	EventFormReset            EventType = "form.reset"
	EventFormSubmitStart      EventType = "form.submit.start"
	EventFormSubmitComplete   EventType = "form.submit.complete"
	EventFormSubmitFailed     EventType = "form.submit.failed"
	EventFormSubmitRejected   EventType = "form.submit.rejected"
	EventFormRemoteUnresolved EventType = "form.remote.unresolved"

	EventSourceLoadStart    EventType = "source.load.start"
	EventSourceLoadComplete EventType = "source.load.complete"
	EventSourceLoadFailed   EventType = "source.load.failed"
	EventSourceBindFailed   EventType = "source.bind.failed"
)

// Event is a single observability record. Source names the emitting
// component (usually the field or form name).
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// NoOpObserver discards all events.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}

// Emit stamps and forwards an event. A nil observer is ignored.
func Emit(ctx context.Context, observer Observer, eventType EventType, level Level, source string, data map[string]any) {
	if observer == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	observer.OnEvent(ctx, Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}
