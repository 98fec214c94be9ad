package client

import (
	"context"
	"sync"

	domain "mlboard/backend/internal/domain/auth"
	"mlboard/backend/internal/events"
)

// SessionObserver caches the current identity for the UI. It fetches once on
// Start, re-fetches when either invalidation topic fires, and exposes
// Refresh for flows that need an immediate re-check (logout before
// navigating away). Any fetch failure resolves to "no session" rather than
// leaving stale state.
type SessionObserver struct {
	client *Client

	mu      sync.RWMutex
	user    *domain.User
	loading bool
}

// NewSessionObserver constructs an observer bound to the client.
func NewSessionObserver(c *Client) *SessionObserver {
	return &SessionObserver{client: c, loading: true}
}

// Start performs the initial fetch and subscribes to the invalidation
// topics. It subscribes exactly once; call it once per observer lifetime.
// The goroutine exits when ctx is cancelled.
func (o *SessionObserver) Start(ctx context.Context) {
	authChanged := o.client.bus.Subscribe(events.TopicAuthChanged)
	datasetUpdated := o.client.bus.Subscribe(events.TopicDatasetUpdated)

	o.Refresh(ctx)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-authChanged:
			case <-datasetUpdated:
			}
			o.Refresh(ctx)
		}
	}()
}

// Refresh re-fetches the identity synchronously.
func (o *SessionObserver) Refresh(ctx context.Context) {
	user, err := o.client.FetchUser(ctx)
	if err != nil {
		user = nil
	}

	o.mu.Lock()
	o.user = user
	o.loading = false
	o.mu.Unlock()
}

// User returns the cached identity, nil when logged out.
func (o *SessionObserver) User() *domain.User {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.user
}

// Loading reports whether the first fetch is still outstanding.
func (o *SessionObserver) Loading() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.loading
}
