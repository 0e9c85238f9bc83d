//go:build !linux

package uischeduler

import "sync"

// LoopHostDispatcher is the non-Linux fallback: functionally identical to
// the eventfd-backed Linux implementation, but parks on a plain channel
// instead of a real OS wake-up primitive (golang.org/x/sys/unix's eventfd
// support is Linux-only, matching eventloop's own wakeup_darwin.go/
// wakeup_windows.go split).
type LoopHostDispatcher struct {
	mu      sync.Mutex
	pending []*Handler
	wake    chan struct{}
	closed  bool
}

// NewLoopHostDispatcher creates a LoopHostDispatcher.
func NewLoopHostDispatcher() (*LoopHostDispatcher, error) {
	return &LoopHostDispatcher{wake: make(chan struct{}, 1)}, nil
}

// RunAsync implements HostDispatcher.
func (l *LoopHostDispatcher) RunAsync(h *Handler) error {
	l.mu.Lock()
	l.pending = append(l.pending, h)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run pumps queued handlers until stop is closed.
func (l *LoopHostDispatcher) Run(stop <-chan struct{}) error {
	defer l.close()
	for {
		l.drainOnce()
		select {
		case <-stop:
			return nil
		case <-l.wake:
		}
	}
}

func (l *LoopHostDispatcher) drainOnce() {
	for {
		l.mu.Lock()
		if len(l.pending) == 0 {
			l.mu.Unlock()
			return
		}
		h := l.pending[0]
		l.pending[0] = nil
		l.pending = l.pending[1:]
		l.mu.Unlock()
		h.Invoke()
	}
}

func (l *LoopHostDispatcher) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for _, h := range l.pending {
		h.Release()
	}
	l.pending = nil
}
