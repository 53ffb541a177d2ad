package events

import (
	"slices"
	"sync"
)

type subscription[T any] struct {
	id uint64
	fn func(T)
}

type bus[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription[T]
}

// Bus is a typed publish/subscribe registry. Handlers run synchronously on the
// publisher's goroutine in subscription order.
type Bus[T any] interface {
	// Subscribe registers a handler for every subsequent Publish.
	// A handler added while a Publish is running first receives the next event.
	//
	// Parameters:
	//   - fn: the handler; nil is ignored
	//
	// Returns:
	//   - func(): removes the handler; safe to call more than once
	Subscribe(fn func(T)) (unsubscribe func())

	// Publish delivers ev to every current subscriber.
	//
	// Parameters:
	//   - ev: the event payload
	Publish(ev T)

	// Len returns the number of registered handlers.
	//
	// Returns:
	//   - int: the subscriber count
	Len() int
}

var _ Bus[FrameEvent] = &bus[FrameEvent]{}

// NewBus creates an empty Bus for events of type T.
//
// Returns:
//   - Bus[T]: the new bus
func NewBus[T any]() Bus[T] {
	return &bus[T]{}
}

func (b *bus[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription[T]{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.subs = slices.DeleteFunc(b.subs, func(s subscription[T]) bool { return s.id == id })
		})
	}
}

func (b *bus[T]) Publish(ev T) {
	b.mu.RLock()
	snapshot := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.fn(ev)
	}
}

func (b *bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
