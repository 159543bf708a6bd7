package detect

import (
	"context"
	"sync"

	"movierater/internal/pkg/logger"
)

const (
	watcherQueueSize     = 16
	subscriberBufferSize = 4
)

// Watcher tracks the title of a page that keeps changing. Each snapshot
// passed to Notify is run through the detector; a non-empty title that
// differs from the current one replaces it and is sent to subscribers.
type Watcher struct {
	detector *Detector
	log      *logger.Logger

	pages chan *Page

	mu      sync.RWMutex
	current string
	latest  *Page
	newest  *Page
	subs    map[int]chan string
	nextSub int

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// NewWatcher creates a stopped watcher. log may be nil.
func NewWatcher(d *Detector, log *logger.Logger) *Watcher {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		detector: d,
		log:      log,
		pages:    make(chan *Page, watcherQueueSize),
		subs:     make(map[int]chan string),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start launches the detection goroutine. It stops when ctx is cancelled
// or Stop is called. Calling Start twice is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-w.ctx.Done():
		}
	}()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case p := <-w.pages:
			w.observe(p)
		}
	}
}

func (w *Watcher) observe(p *Page) {
	title := w.detector.DetectTitle(p)

	w.mu.Lock()
	w.latest = p
	if title == "" || title == w.current {
		w.mu.Unlock()
		return
	}
	w.current = title
	for id, ch := range w.subs {
		select {
		case ch <- title:
		default:
			w.log.Debug("Dropping title update for slow subscriber", "subscriber", id)
		}
	}
	w.mu.Unlock()

	w.log.Debug("Detected title changed", "title", title, "host", p.Host)
}

// Notify queues a new snapshot. It blocks until the snapshot is accepted,
// ctx is done or the watcher stops, and reports whether it was accepted.
func (w *Watcher) Notify(ctx context.Context, p *Page) bool {
	if p == nil {
		return false
	}
	select {
	case <-w.ctx.Done():
		return false
	default:
	}
	select {
	case w.pages <- p:
		w.mu.Lock()
		w.newest = p
		w.mu.Unlock()
		return true
	case <-ctx.Done():
		return false
	case <-w.ctx.Done():
		return false
	}
}

// Current returns the last detected non-empty title.
func (w *Watcher) Current() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Latest returns the most recently processed snapshot, or nil.
func (w *Watcher) Latest() *Page {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.latest
}

// Newest returns the most recently accepted snapshot, or nil. Unlike
// Latest it is set as soon as Notify returns, before detection runs.
func (w *Watcher) Newest() *Page {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.newest
}

// Detector returns the detector the watcher runs.
func (w *Watcher) Detector() *Detector {
	return w.detector
}

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} {
	return w.ctx.Done()
}

// Subscribe returns a channel of title changes and a function that
// releases it. The channel is closed on unsubscribe or Stop.
func (w *Watcher) Subscribe() (<-chan string, func()) {
	ch := make(chan string, subscriberBufferSize)

	w.mu.Lock()
	select {
	case <-w.ctx.Done():
		w.mu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}
	id := w.nextSub
	w.nextSub++
	w.subs[id] = ch
	w.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			if c, ok := w.subs[id]; ok {
				delete(w.subs, id)
				close(c)
			}
		})
	}
}

// Stop ends detection and closes every subscriber channel. It waits for
// the detection goroutine when one was started.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.cancel()

		w.mu.Lock()
		started := w.started
		for id, ch := range w.subs {
			delete(w.subs, id)
			close(ch)
		}
		w.mu.Unlock()

		if started {
			<-w.done
		}
	})
}
