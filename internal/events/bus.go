// Package events carries app-wide notifications between otherwise unrelated
// components. Today the only event is logout, which every cache listens to.
package events

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers []logoutHandler
}

type logoutHandler struct {
	id int
	fn func()
}

func NewBus() *Bus {
	return &Bus{}
}

// OnLogout registers fn to run on every EmitLogout. The returned func removes it.
func (b *Bus) OnLogout(fn func()) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, logoutHandler{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, h := range b.handlers {
			if h.id == id {
				b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// EmitLogout runs the registered handlers synchronously, in registration order.
// Handlers may (un)subscribe while running.
func (b *Bus) EmitLogout() {
	b.mu.Lock()
	handlers := make([]logoutHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	log.Debugf("events: logout, notifying %d handlers", len(handlers))
	for _, h := range handlers {
		h.fn()
	}
}
