package notify

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Listener receives events published on a Hub.
type Listener[E any] interface {
	Notify(event E)
}

// Hub is an in-process observer registry for one event payload type.
// Delivery is synchronous, in subscription order, at-most-once: events
// published while nobody is subscribed are dropped, nothing is persisted.
type Hub[E any] struct {
	mu        sync.Mutex
	listeners []Listener[E]
}

func NewHub[E any]() *Hub[E] {
	return &Hub[E]{}
}

// Subscribe registers a listener. The same listener may be registered twice;
// it will then be notified twice per event.
func (h *Hub[E]) Subscribe(l Listener[E]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, l)
}

// Unsubscribe removes the first registration of l. Unknown listeners are ignored.
func (h *Hub[E]) Unsubscribe(l Listener[E]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, existing := range h.listeners {
		if existing == l {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every currently subscribed listener.
// The listener slice is snapshotted first, so subscribe/unsubscribe from
// another goroutine (or from a listener) cannot corrupt the iteration.
// A panicking listener is logged and skipped; the fan-out continues.
func (h *Hub[E]) Publish(event E) {
	h.mu.Lock()
	snapshot := make([]Listener[E], len(h.listeners))
	copy(snapshot, h.listeners)
	h.mu.Unlock()

	for _, l := range snapshot {
		h.notifyOne(l, event)
	}
}

func (h *Hub[E]) notifyOne(l Listener[E], event E) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic_value", p).Msg("notify: listener panicked, continuing fan-out")
		}
	}()
	l.Notify(event)
}

// Len reports how many registrations the hub currently holds.
func (h *Hub[E]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
