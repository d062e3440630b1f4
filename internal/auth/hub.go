package auth

import "sync"

const (
	EventSubscribed = "SUBSCRIBED"
	EventSignedOut  = "SIGNED_OUT"
)

type Event struct {
	Event string `json:"event"`
}

// Hub fans auth events out to every open stream of a user.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[chan Event]struct{})}
}

// Subscribe returns a channel of events for userID. The caller must invoke
// the returned cancel function.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, 4)

	h.mu.Lock()
	subs, ok := h.subscribers[userID]
	if !ok {
		subs = make(map[chan Event]struct{})
		h.subscribers[userID] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subscribers[userID]
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, userID)
		}
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber of userID and reports how many
// streams it reached. Slow subscribers lose their oldest pending event.
func (h *Hub) Publish(userID string, ev Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[userID]
	for ch := range subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
	return len(subs)
}
