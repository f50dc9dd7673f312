package ws

import (
	"sync"

	"github.com/filescope/filescope/internal/shared/types"
)

const subscriberBuffer = 64

// Hub fans progress events out to subscribers. Publish never blocks; a
// subscriber that cannot keep up loses events rather than stalling the
// transfer that produced them.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan types.ProgressEvent]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan types.ProgressEvent]struct{})}
}

// Subscribe registers a new listener. The returned cancel func must be
// called when the listener goes away.
func (h *Hub) Subscribe() (<-chan types.ProgressEvent, func()) {
	ch := make(chan types.ProgressEvent, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber, dropping it for any
// whose buffer is full.
func (h *Hub) Publish(event types.ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers reports the current listener count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
