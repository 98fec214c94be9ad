// Package events carries the two client-side invalidation signals the
// session observer reacts to. It replaces ad hoc shared state with a single
// owned pub/sub channel.
package events

import "sync"

// Topic names a broadcast channel.
type Topic string

const (
	// TopicAuthChanged fires after login, logout and signup flows.
	TopicAuthChanged Topic = "auth-changed"
	// TopicDatasetUpdated fires after upload and admin delete flows, which
	// can change what the UI should show per role.
	TopicDatasetUpdated Topic = "dataset-updated"
)

// Bus is a minimal in-process publish/subscribe broker. Publish never
// blocks: a subscriber that has not drained its pending signal simply
// coalesces the next one.
type Bus struct {
	mu   sync.Mutex
	subs map[Topic][]chan struct{}
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]chan struct{})}
}

// Subscribe registers interest in a topic. The returned channel receives a
// signal per publish, coalesced when the subscriber lags.
func (b *Bus) Subscribe(topic Topic) <-chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()
	return ch
}

// Publish notifies all subscribers of the topic.
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	subs := b.subs[topic]
	b.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
