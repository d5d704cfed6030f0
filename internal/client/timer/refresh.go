package timer

import (
	"context"
	"sync"
	"time"
)

// Refresher drives the periodic elapsed-time redraw while a detail view
// with a running entry is active. At most one refresh loop is alive:
// Start always cancels the previous one first, and Stop cancels without
// replacement when the view is left.
type Refresher struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewRefresher returns an idle refresher.
func NewRefresher() *Refresher {
	return &Refresher{}
}

// Start begins calling fn every interval until Stop or a subsequent Start.
// fn runs on a background goroutine.
func (r *Refresher) Start(interval time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the refresh loop. Safe to call when idle.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Active reports whether a refresh loop is currently alive.
func (r *Refresher) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}
