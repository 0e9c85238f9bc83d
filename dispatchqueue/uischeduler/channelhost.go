package uischeduler

import "sync"

// ChannelHostDispatcher is a fully synchronous, single-goroutine
// HostDispatcher for tests: handlers queue up instead of running
// immediately, and the test drives exactly when each one is invoked or
// dropped. This is the Go analogue of a goja-eventloop-flavored stub host:
// deterministic, no background goroutine of its own.
type ChannelHostDispatcher struct {
	mu      sync.Mutex
	pending []*Handler
}

// NewChannelHostDispatcher constructs an empty ChannelHostDispatcher.
func NewChannelHostDispatcher() *ChannelHostDispatcher {
	return &ChannelHostDispatcher{}
}

// RunAsync implements HostDispatcher by enqueueing h for the test to drain
// later via InvokeNext/DropNext.
func (c *ChannelHostDispatcher) RunAsync(h *Handler) error {
	c.mu.Lock()
	c.pending = append(c.pending, h)
	c.mu.Unlock()
	return nil
}

// Pending reports how many handlers are queued and not yet resolved.
func (c *ChannelHostDispatcher) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// InvokeNext invokes the oldest queued handler. It reports false if the
// queue was empty.
func (c *ChannelHostDispatcher) InvokeNext() bool {
	h, ok := c.pop()
	if !ok {
		return false
	}
	h.Invoke()
	return true
}

// DropNext discards the oldest queued handler without invoking it,
// simulating a host that releases a handler it never ran. It reports
// false if the queue was empty.
func (c *ChannelHostDispatcher) DropNext() bool {
	h, ok := c.pop()
	if !ok {
		return false
	}
	h.Release()
	return true
}

func (c *ChannelHostDispatcher) pop() (*Handler, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil, false
	}
	h := c.pending[0]
	c.pending[0] = nil
	c.pending = c.pending[1:]
	return h, true
}
