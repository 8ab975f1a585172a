// Package events fans out order updates to live listeners: in-process
// subscribers (server push streams, watchers) and optionally an AMQP
// exchange for external consumers.
package events

import (
	"context"
	"sync"

	"github.com/varun0122/Restaurant-Management/internal/domain/order"
)

// Bus is an in-process publish/subscribe hub for order updates.
// Slow subscribers never block publishers: when a subscriber's buffer is
// full the update is dropped for that subscriber, which then recovers on
// its next poll.
type Bus struct {
	mu   sync.RWMutex
	subs map[uint64]chan order.Order
	next uint64
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]chan order.Order)}
}

// PublishOrderUpdate delivers a snapshot of o to every subscriber.
func (b *Bus) PublishOrderUpdate(_ context.Context, o *order.Order) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- *o:
		default:
		}
	}
}

// Subscribe registers a listener with the given buffer size and returns its
// channel together with a cancel function. Cancel closes the channel and
// removes the subscription; it is safe to call more than once.
func (b *Bus) Subscribe(buffer int) (<-chan order.Order, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan order.Order, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
