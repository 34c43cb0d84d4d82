package realtime

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrHubClosed = errors.New("realtime hub closed")

type subscriber struct {
	familyID string
	ch       chan Event
}

// LocalHub delivers events between goroutines of one process.
type LocalHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscriber
	closed bool
}

func NewLocalHub() *LocalHub {
	return &LocalHub{subs: make(map[int]subscriber)}
}

func (h *LocalHub) Publish(_ context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	for _, s := range h.subs {
		if matches(s.familyID, ev) {
			offer(s.ch, ev)
		}
	}
	return nil
}

func (h *LocalHub) Subscribe(ctx context.Context, familyID string) (<-chan Event, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHubClosed
	}
	id := h.nextID
	h.nextID++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = subscriber{familyID: familyID, ch: ch}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.remove(id)
	}()
	return ch, nil
}

func (h *LocalHub) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(s.ch)
	}
}

// Close ends every subscription.
func (h *LocalHub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, s := range h.subs {
		delete(h.subs, id)
		close(s.ch)
	}
	return nil
}
