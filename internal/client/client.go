// Package client is the in-process counterpart of the browser session flows:
// an API client bound to a cookie jar and an observer that caches the
// current identity and invalidates it on the published signals.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	domain "mlboard/backend/internal/domain/auth"
	"mlboard/backend/internal/events"
)

// Client speaks to the auth endpoints. All requests share one cookie jar so
// the session cookie set at login rides along automatically.
type Client struct {
	baseURL string
	http    *http.Client
	bus     *events.Bus
}

// New constructs a client for the given server base URL, publishing auth
// state changes on bus.
func New(baseURL string, bus *events.Bus) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
		bus:     bus,
	}, nil
}

type userEnvelope struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// Signup registers an account, stores the session cookie and announces the
// auth change.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*domain.User, error) {
	env, err := c.postJSON(ctx, "/api/auth/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	c.bus.Publish(events.TopicAuthChanged)
	return env.User, nil
}

// Login authenticates, stores the session cookie and announces the auth
// change.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	env, err := c.postJSON(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, http.StatusOK)
	if err != nil {
		return nil, err
	}
	c.bus.Publish(events.TopicAuthChanged)
	return env.User, nil
}

// Logout clears the server-side cookie and announces the auth change.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.postJSON(ctx, "/api/auth/logout", nil, http.StatusOK); err != nil {
		return err
	}
	c.bus.Publish(events.TopicAuthChanged)
	return nil
}

// FetchUser asks the server who the ambient cookie belongs to. A nil user
// with a nil error means "not logged in".
func (c *Client) FetchUser(ctx context.Context) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/auth/user", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identify-self: unexpected status %d", resp.StatusCode)
	}

	var env userEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	return env.User, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, wantStatus int) (*userEnvelope, error) {
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env userEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("%s: %s", path, env.Message)
	}
	return &env, nil
}
