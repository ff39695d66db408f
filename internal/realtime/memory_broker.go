package realtime

import (
	"context"
	"sync"

	"jobportal/internal/domain/chat"
)

// MemoryBroker is the single-instance loopback used when Redis is not
// configured, and in tests.
type MemoryBroker struct {
	mu     sync.Mutex
	events chan chat.Event
	closed bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{events: make(chan chat.Event, 256)}
}

func (b *MemoryBroker) Publish(_ context.Context, ev chat.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	select {
	case b.events <- ev:
	default:
	}
	return nil
}

func (b *MemoryBroker) Events() <-chan chat.Event {
	return b.events
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.events)
	}
	return nil
}
