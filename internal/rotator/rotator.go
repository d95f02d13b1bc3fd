package rotator

import (
	"context"
	"sync"
	"time"
)

// Rotator cycles through a fixed list of strings on a ticker. The ticker
// goroutine only runs between Start and Stop.
type Rotator struct {
	items    []string
	interval time.Duration

	mu      sync.RWMutex
	index   int
	cancel  context.CancelFunc
	done    chan struct{}
	onAfter func(int)
}

func New(items []string, interval time.Duration) *Rotator {
	return &Rotator{items: items, interval: interval}
}

// Current returns the active item, or "" when there are no items.
func (r *Rotator) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.items) == 0 {
		return ""
	}
	return r.items[r.index]
}

// Advance moves to the next item and returns its index.
func (r *Rotator) Advance() int {
	r.mu.Lock()
	if len(r.items) > 0 {
		r.index = (r.index + 1) % len(r.items)
	}
	i := r.index
	hook := r.onAfter
	r.mu.Unlock()

	if hook != nil {
		hook(i)
	}
	return i
}

// Start launches the ticker. It is a no-op if already running, if there is at
// most one item, or if the interval is not positive.
func (r *Rotator) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil || len(r.items) < 2 || r.interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.run(ctx, r.done)
}

func (r *Rotator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Advance()
		}
	}
}

// Stop halts the ticker and waits for its goroutine to exit.
func (r *Rotator) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
}

func (r *Rotator) Running() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cancel != nil
}
