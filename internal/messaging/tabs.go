package messaging

import (
	"context"
	"fmt"
	"sync"

	"movierater/internal/detect"
	"movierater/internal/pkg/logger"
)

// DetectorResponder answers title and genre requests by detecting on the
// newest snapshot the tab has sent.
type DetectorResponder struct {
	watcher *detect.Watcher
}

func NewDetectorResponder(w *detect.Watcher) *DetectorResponder {
	return &DetectorResponder{watcher: w}
}

func (r *DetectorResponder) Respond(ctx context.Context, action string) (Response, error) {
	select {
	case <-r.watcher.Done():
		return Response{}, ErrResponderUnavailable
	default:
	}

	d := r.watcher.Detector()
	page := r.watcher.Newest()
	switch action {
	case ActionGetMovieTitle:
		if title := d.DetectTitle(page); title != "" {
			return Response{Title: title}, nil
		}
		return Response{Title: r.watcher.Current()}, nil
	case ActionGetMovieGenre:
		if !d.GenreEnabled() {
			return Response{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
		}
		return Response{Genre: d.DetectGenre(page)}, nil
	default:
		return Response{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
}

// Tabs owns one watcher per tab and keeps the bridge registrations in
// step with them.
type Tabs struct {
	ctx      context.Context
	bridge   *Bridge
	detector *detect.Detector
	log      *logger.Logger

	mu       sync.Mutex
	watchers map[string]*detect.Watcher
}

// NewTabs creates a registry. Watchers stop when ctx is cancelled.
func NewTabs(ctx context.Context, bridge *Bridge, d *detect.Detector, log *logger.Logger) *Tabs {
	if log == nil {
		log = logger.Nop()
	}
	return &Tabs{
		ctx:      ctx,
		bridge:   bridge,
		detector: d,
		log:      log,
		watchers: make(map[string]*detect.Watcher),
	}
}

// Snapshot feeds a page to the tab's watcher, starting one on first use.
func (t *Tabs) Snapshot(ctx context.Context, tabID string, page *detect.Page) error {
	w := t.Open(tabID)
	if !w.Notify(ctx, page) {
		return fmt.Errorf("%w: tab %s", ErrResponderUnavailable, tabID)
	}
	return nil
}

// Open returns the tab's watcher, starting and registering one if needed.
func (t *Tabs) Open(tabID string) *detect.Watcher {
	t.mu.Lock()
	defer t.mu.Unlock()

	if w, ok := t.watchers[tabID]; ok {
		return w
	}
	w := detect.NewWatcher(t.detector, t.log.With("tab", tabID))
	w.Start(t.ctx)
	t.watchers[tabID] = w
	t.bridge.Register(tabID, NewDetectorResponder(w))
	t.log.Debug("Tab watcher started", "tab", tabID)
	return w
}

// Watcher returns the tab's watcher if one is running.
func (t *Tabs) Watcher(tabID string) (*detect.Watcher, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.watchers[tabID]
	return w, ok
}

// Close stops the tab's watcher. Closing an unknown tab is a no-op.
func (t *Tabs) Close(tabID string) {
	t.mu.Lock()
	w, ok := t.watchers[tabID]
	delete(t.watchers, tabID)
	t.mu.Unlock()

	if !ok {
		return
	}
	t.bridge.Unregister(tabID)
	w.Stop()
	t.log.Debug("Tab watcher stopped", "tab", tabID)
}

// CloseAll stops every watcher.
func (t *Tabs) CloseAll() {
	t.mu.Lock()
	ids := make([]string, 0, len(t.watchers))
	for id := range t.watchers {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	for _, id := range ids {
		t.Close(id)
	}
}
