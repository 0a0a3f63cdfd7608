// Package notify is the change-notification primitive behind every reactive
// cell in the engine (fields, lists, forms, sources).
package notify

import (
	"sort"
	"sync"
)

// Hub keeps a set of change listeners. Listeners run synchronously on the
// goroutine that calls Notify, in subscription order, with no lock held.
type Hub struct {
	mu        sync.Mutex
	next      uint64
	listeners map[uint64]func()
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is safe.
func (h *Hub) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	if h.listeners == nil {
		h.listeners = make(map[uint64]func())
	}
	h.next++
	id := h.next
	h.listeners[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// Notify calls every listener registered at the time of the call.
func (h *Hub) Notify() {
	h.mu.Lock()
	if len(h.listeners) == 0 {
		h.mu.Unlock()
		return
	}
	ids := make([]uint64, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Len reports the number of active listeners.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
