package mapscript

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// HTTPHost downloads the bundle server-side and keeps it in memory so it can be served
// from this origin.
type HTTPHost struct {
	client *http.Client

	mu      sync.RWMutex
	scripts map[string][]byte
}

// NewHTTPHost creates an empty host. A nil client gets a 10 second timeout.
func NewHTTPHost(client *http.Client) *HTTPHost {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPHost{
		client:  client,
		scripts: make(map[string][]byte),
	}
}

// HasGlobal reports whether the maps namespace is available. A server has no JavaScript
// global to inspect, so this is a text heuristic: a stored bundle counts when it mentions
// the naver.maps namespace. A 200 reply that is not the map bundle (an error page, an
// empty body) therefore fails the load with ErrGlobalMissing.
func (h *HTTPHost) HasGlobal() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, body := range h.scripts {
		if bytes.Contains(body, []byte("naver.maps")) {
			return true
		}
	}
	return false
}

func (h *HTTPHost) Inject(ctx context.Context, id, src string) <-chan Event {
	events := make(chan Event, 1)
	go func() {
		defer close(events)
		events <- h.fetch(ctx, id, src)
	}()
	return events
}

func (h *HTTPHost) fetch(ctx context.Context, id, src string) Event {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return Event{Type: EventError, Err: err}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return Event{Type: EventError, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Event{Type: EventAuthFailure}
	case resp.StatusCode != http.StatusOK:
		return Event{Type: EventError, Err: fmt.Errorf("script endpoint returned %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Event{Type: EventError, Err: err}
	}

	h.mu.Lock()
	h.scripts[id] = body
	h.mu.Unlock()
	return Event{Type: EventLoad}
}

func (h *HTTPHost) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.scripts, id)
}

// Script returns the stored bundle for id
func (h *HTTPHost) Script(id string) ([]byte, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	body, ok := h.scripts[id]
	return body, ok
}
