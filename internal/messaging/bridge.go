// Package messaging routes title/genre requests to the detector bound to a
// browser tab.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"movierater/internal/pkg/logger"
)

// Actions understood by tab responders.
const (
	ActionGetMovieTitle = "getMovieTitle"
	ActionGetMovieGenre = "getMovieGenre"
)

var (
	ErrUnknownAction        = errors.New("unknown action")
	ErrResponderUnavailable = errors.New("responder unavailable")
	ErrResponderTimeout     = errors.New("responder timed out")
)

// Response carries the single field an action asks for.
type Response struct {
	Title string `json:"title,omitempty"`
	Genre string `json:"genre,omitempty"`
}

// Responder answers requests for one tab.
type Responder interface {
	Respond(ctx context.Context, action string) (Response, error)
}

// Bridge maps tab IDs to responders. Requests never outlive their context
// or the bridge's default timeout.
type Bridge struct {
	mu         sync.RWMutex
	responders map[string]Responder
	timeout    time.Duration
	log        *logger.Logger
}

// NewBridge creates a bridge. timeout <= 0 selects 5s.
func NewBridge(timeout time.Duration, log *logger.Logger) *Bridge {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Bridge{
		responders: make(map[string]Responder),
		timeout:    timeout,
		log:        log,
	}
}

func (b *Bridge) Register(tabID string, r Responder) {
	b.mu.Lock()
	b.responders[tabID] = r
	b.mu.Unlock()
}

func (b *Bridge) Unregister(tabID string) {
	b.mu.Lock()
	delete(b.responders, tabID)
	b.mu.Unlock()
}

// Request sends action to the responder of tabID and waits for its answer.
func (b *Bridge) Request(ctx context.Context, tabID, action string) (Response, error) {
	b.mu.RLock()
	r, ok := b.responders[tabID]
	b.mu.RUnlock()
	if !ok {
		return Response{}, fmt.Errorf("%w: tab %s", ErrResponderUnavailable, tabID)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	type result struct {
		resp Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := r.Respond(ctx, action)
		done <- result{resp, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			b.log.Debug("Tab request failed", "tab", tabID, "action", action, "error", res.err)
		}
		return res.resp, res.err
	case <-ctx.Done():
		b.log.Warn("Tab request timed out", "tab", tabID, "action", action)
		return Response{}, fmt.Errorf("%w: tab %s", ErrResponderTimeout, tabID)
	}
}
