package observability

import (
	"context"
	"strings"
	"sync"
)

// Buffer keeps every event it receives in memory. It is safe for concurrent
// use and is mostly useful in tests and for post-run summaries.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

func (b *Buffer) OnEvent(_ context.Context, event Event) {
	b.mu.Lock()
	b.events = append(b.events, event)
	b.mu.Unlock()
}

// Events returns a copy of the recorded events in arrival order.
func (b *Buffer) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Event(nil), b.events...)
}

// Types returns the recorded event types whose name starts with prefix.
func (b *Buffer) Types(prefix string) []EventType {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []EventType
	for _, event := range b.events {
		if strings.HasPrefix(string(event.Type), prefix) {
			out = append(out, event.Type)
		}
	}
	return out
}

// Count returns how many events of type t were recorded.
func (b *Buffer) Count(t EventType) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, event := range b.events {
		if event.Type == t {
			n++
		}
	}
	return n
}

// Reset drops every recorded event.
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.events = nil
	b.mu.Unlock()
}

type tee []Observer

func (t tee) OnEvent(ctx context.Context, event Event) {
	for _, observer := range t {
		observer.OnEvent(ctx, event)
	}
}

// Tee forwards every event to each non-nil observer in order. With a single
// observer it returns that observer; with none it returns NoOpObserver.
func Tee(observers ...Observer) Observer {
	out := make(tee, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			out = append(out, observer)
		}
	}
	switch len(out) {
	case 0:
		return NoOpObserver{}
	case 1:
		return out[0]
	}
	return out
}
