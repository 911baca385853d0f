package event

import "sync"

// Listener receives published events.
type Listener func(Event)

type subscription struct {
	handle   int
	typ      Type
	typed    bool
	listener Listener
}

// Bus delivers events to subscribers synchronously, in subscription order.
type Bus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (b *Bus) Subscribe(listener Listener) int {
	return b.add(subscription{listener: listener})
}

// SubscribeTyped registers a listener for one event type.
func (b *Bus) SubscribeTyped(typ Type, listener Listener) int {
	return b.add(subscription{typ: typ, typed: true, listener: listener})
}

func (b *Bus) add(sub subscription) int {
	if sub.listener == nil {
		return -1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	sub.handle = b.nextHandle
	b.nextHandle++
	b.subs = append(b.subs, sub)
	return sub.handle
}

// Unsubscribe removes the listener identified by handle.
func (b *Bus) Unsubscribe(handle int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.handle == handle {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every matching listener.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, sub := range subs {
		if sub.typed && sub.typ != evt.Type {
			continue
		}
		sub.listener(evt)
	}
}

// PublishAll publishes events in order.
func (b *Bus) PublishAll(events []Event) {
	for _, evt := range events {
		b.Publish(evt)
	}
}
