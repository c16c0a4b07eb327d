// Package notify provides change notification for timeline edits.
//
// The engine publishes a Change after every committed mutation; hosting
// layers (a UI, a persistence component) subscribe with callbacks. The
// engine itself never depends on any particular reactive mechanism.
package notify

import (
	"strings"
	"sync"
)

// Change describes one engine mutation.
type Change struct {
	// Op is the dot-separated operation name, e.g. "clip.moved" or
	// "link.snapped".
	Op string

	// IDs are the affected entity ids (clips or tracks).
	IDs []string
}

// Observer is called when a change occurs.
type Observer func(change Change)

// Subscription represents an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
		s.notifier = nil
	}
}

// Notifier manages change subscriptions. Delivery is synchronous, in
// subscription order, on the publishing goroutine.
type Notifier struct {
	mu        sync.RWMutex
	observers map[uint64]entry
	nextID    uint64
}

type entry struct {
	prefix   string
	observer Observer
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{observers: make(map[uint64]entry)}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(obs Observer) *Subscription {
	return n.SubscribePrefix("", obs)
}

// SubscribePrefix registers an observer for changes whose Op matches the
// given dot-path prefix ("clip" matches "clip.moved" but not
// "clipboard.changed").
func (n *Notifier) SubscribePrefix(prefix string, obs Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID
	n.observers[id] = entry{prefix: prefix, observer: obs}
	return &Subscription{id: id, notifier: n}
}

// Publish delivers a change to every matching observer.
func (n *Notifier) Publish(change Change) {
	n.mu.RLock()
	matched := make([]Observer, 0, len(n.observers))
	for _, e := range n.observers {
		if matchPrefix(e.prefix, change.Op) {
			matched = append(matched, e.observer)
		}
	}
	n.mu.RUnlock()

	for _, obs := range matched {
		obs(change)
	}
}

// Count returns the number of active subscriptions.
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.observers)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

func matchPrefix(prefix, op string) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(op, prefix) {
		return false
	}
	return len(op) == len(prefix) || op[len(prefix)] == '.'
}
