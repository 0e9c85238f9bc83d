//go:build linux

package uischeduler

import (
	"sync"

	"golang.org/x/sys/unix"
)

// LoopHostDispatcher is a HostDispatcher backed by a real OS wake-up
// primitive: handlers are queued, then an eventfd write wakes whatever
// goroutine is blocked in Run, exactly the mechanism eventloop.Loop uses
// on Linux (eventloop/wakeup_linux.go's createWakeFd/EFD_NONBLOCK pair).
// Run must be called from the goroutine that is to act as the "UI thread".
type LoopHostDispatcher struct {
	mu      sync.Mutex
	pending []*Handler
	wakeFd  int
	closed  bool
}

// NewLoopHostDispatcher creates a LoopHostDispatcher, allocating its
// wake-up eventfd.
func NewLoopHostDispatcher() (*LoopHostDispatcher, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, err
	}
	return &LoopHostDispatcher{wakeFd: fd}, nil
}

// RunAsync implements HostDispatcher.
func (l *LoopHostDispatcher) RunAsync(h *Handler) error {
	l.mu.Lock()
	l.pending = append(l.pending, h)
	l.mu.Unlock()
	return l.wake()
}

func (l *LoopHostDispatcher) wake() error {
	var buf [8]byte
	buf[7] = 1
	_, err := unix.Write(l.wakeFd, buf[:])
	if err != nil && err != unix.EAGAIN {
		return err
	}
	return nil
}

func (l *LoopHostDispatcher) drainWake() {
	var buf [8]byte
	for {
		if _, err := unix.Read(l.wakeFd, buf[:]); err != nil {
			return
		}
	}
}

// Run pumps queued handlers until stop is closed, parking on the wake
// eventfd between batches. It must be called from a single goroutine
// dedicated to acting as the host's UI thread.
func (l *LoopHostDispatcher) Run(stop <-chan struct{}) error {
	defer l.close()
	for {
		l.drainOnce()
		select {
		case <-stop:
			return nil
		default:
		}
		if err := l.waitForWake(stop); err != nil {
			return err
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

func (l *LoopHostDispatcher) waitForWake(stop <-chan struct{}) error {
	pollFds := []unix.PollFd{{Fd: int32(l.wakeFd), Events: unix.POLLIN}}
	for {
		select {
		case <-stop:
			return nil
		default:
		}
		n, err := unix.Poll(pollFds, 50)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}
		if n > 0 {
			l.drainWake()
			return nil
		}
	}
}

func (l *LoopHostDispatcher) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	// Drop any handlers still queued at shutdown without invoking them,
	// matching "host discards the handler without running it".
	for _, h := range l.pending {
		h.Release()
	}
	l.pending = nil
	_ = unix.Close(l.wakeFd)
}
