// Package notification provides the in-process room bus behind the
// NotificationBus port. Subscribers join rooms (one per venue, one per
// order) and receive lifecycle events over buffered channels. Delivery is
// at-most-once: a subscriber whose buffer is full misses the event and
// reconciles with a full-state read on reconnect.
package notification

import (
	"sync"

	"messhall/internal/core/ports"
)

// subscriberBuffer is how many events a slow subscriber may lag before
// events are dropped for it.
const subscriberBuffer = 16

// RoomBus is an in-memory, room-addressed event bus. Safe for concurrent
// use. Publish never blocks; a send to a saturated subscriber is skipped.
type RoomBus struct {
	mu    sync.RWMutex
	rooms map[string]map[chan ports.OrderEvent]struct{}
}

// NewRoomBus creates an empty room bus.
func NewRoomBus() *RoomBus {
	return &RoomBus{
		rooms: make(map[string]map[chan ports.OrderEvent]struct{}),
	}
}

// Subscribe joins a room and returns the channel events arrive on.
// The caller must Unsubscribe with the same channel when done.
func (b *RoomBus) Subscribe(room string) chan ports.OrderEvent {
	ch := make(chan ports.OrderEvent, subscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, ok := b.rooms[room]
	if !ok {
		subscribers = make(map[chan ports.OrderEvent]struct{})
		b.rooms[room] = subscribers
	}
	subscribers[ch] = struct{}{}

	return ch
}

// Unsubscribe leaves a room and closes the subscriber's channel. Empty rooms
// are removed so abandoned order rooms do not accumulate.
func (b *RoomBus) Unsubscribe(room string, ch chan ports.OrderEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, ok := b.rooms[room]
	if !ok {
		return
	}
	if _, ok = subscribers[ch]; !ok {
		return
	}

	delete(subscribers, ch)
	close(ch)
	if len(subscribers) == 0 {
		delete(b.rooms, room)
	}
}

// Publish delivers an event to every subscriber of the room. Non-blocking;
// subscribers that cannot keep up are skipped.
func (b *RoomBus) Publish(room string, event ports.OrderEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.rooms[room] {
		select {
		case ch <- event:
		default:
		}
	}
}
