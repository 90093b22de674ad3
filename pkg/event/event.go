// Package event is an in-process publish/subscribe dispatcher. Services fire
// domain events after their transaction commits; listeners registered at boot
// (app/listeners) react to them.
package event

import (
	"sync"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
	inflight sync.WaitGroup
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	return append([]Handler(nil), handlers[event]...)
}

// Fire dispatches an event synchronously to all registered listeners.
// A panicking listener is logged and does not stop the others.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		call(event, h, payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and returns
// immediately. Wait blocks until those deliveries finish.
func FireAsync(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		inflight.Add(1)
		go func(h Handler) {
			defer inflight.Done()
			call(event, h, payload)
		}(h)
	}
}

// Wait blocks until every FireAsync delivery has returned. Called on
// shutdown and in tests.
func Wait() { inflight.Wait() }

func call(event string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event: listener panicked", "event", event, "panic", r)
		}
	}()
	h(payload)
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
