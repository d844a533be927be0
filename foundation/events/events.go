// Package events fans out node events to websocket subscribers.
package events

import (
	"fmt"
	"strings"
	"sync"
)

// messageBuffer is how many events a slow subscriber can fall behind before
// events are dropped for it.
const messageBuffer = 100

// subscriber is a registered receiver and the event prefix it wants.
type subscriber struct {
	ch     chan string
	prefix string
}

// Events maintains a mapping of unique id and subscribers so goroutines
// can register and receive events.
type Events struct {
	m       map[string]subscriber
	dropped int
	mu      sync.RWMutex
}

// New constructs an events for registering and receiving events.
func New() *Events {
	return &Events{
		m: make(map[string]subscriber),
	}
}

// Shutdown closes and removes all channels that were provided by
// the call to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, sub := range evt.m {
		delete(evt.m, id)
		close(sub.ch)
	}
}

// Acquire registers the id and returns the channel its events arrive on.
// Only events starting with prefix are delivered; an empty prefix receives
// everything. Acquiring an existing id returns its channel unchanged.
func (evt *Events) Acquire(id string, prefix string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if sub, exists := evt.m[id]; exists {
		return sub.ch
	}

	sub := subscriber{
		ch:     make(chan string, messageBuffer),
		prefix: prefix,
	}
	evt.m[id] = sub

	return sub.ch
}

// Release closes and removes the channel that was provided by
// the call to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	sub, exists := evt.m[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.m, id)
	close(sub.ch)
	return nil
}

// Count returns the number of registered receivers.
func (evt *Events) Count() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.m)
}

// Dropped returns how many deliveries were skipped because a subscriber
// was full.
func (evt *Events) Dropped() int {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return evt.dropped
}

// Send delivers the message to every subscriber whose prefix matches. Send
// never blocks on a slow subscriber.
func (evt *Events) Send(s string) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for _, sub := range evt.m {
		if !strings.HasPrefix(s, sub.prefix) {
			continue
		}

		select {
		case sub.ch <- s:
		default:
			evt.dropped++
		}
	}
}
