// Package notify fans out advisory cache-change events. Delivery is
// fire-and-forget: slow subscribers drop events rather than blocking the
// cache operation that emitted them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// subscriberBuffer bounds how many undelivered events a subscriber may hold.
const subscriberBuffer = 16

// Event is one advisory cache-change notification.
type Event struct {
	ID         string    `json:"id"`
	Collection string    `json:"collection"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Hub distributes events to its subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan Event)}
}

// Notify broadcasts a cache-change event for a collection. Sends never
// block; a subscriber with a full buffer misses the event.
func (h *Hub) Notify(collection string) {
	event := Event{
		ID:         uuid.NewString(),
		Collection: collection,
		OccurredAt: time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called to release it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++

	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if _, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}

	return ch, cancel
}
