// Package uischeduler implements dispatchqueue's single-threaded
// cooperative Scheduler (spec.md §4.5.2): work is posted as a small
// "handler" object the host's own event loop invokes exactly once, on
// whatever thread the host considers its UI thread.
package uischeduler

import "github.com/joeycumines/dispatchcore/dispatchqueue"

// HostDispatcher is the opaque host event loop collaborator (WinRT
// CoreDispatcher / GTK main loop / browser requestAnimationFrame, in the
// original). RunAsync must arrange for h.Invoke() to be called exactly
// once on the host's own thread, OR for h.Release() to be called if the
// host decides to drop h without ever invoking it (e.g. on host shutdown).
type HostDispatcher interface {
	RunAsync(h *Handler) error
}

// Handler is the host-callable unit New's Scheduler hands to a
// HostDispatcher per Post call.
type Handler struct {
	scheduler *Scheduler
	invoked   bool
}

// Invoke runs the next queued task, then releases this handler's share of
// the scheduler's handler-ref-count. The host must call this at most once.
func (h *Handler) Invoke() {
	h.invoked = true
	h.scheduler.invokeHandler()
	h.scheduler.releaseHandler()
}

// Release tells the scheduler the host has discarded this handler without
// invoking it. Calling Release after Invoke is a no-op: Invoke already
// released the handler's reference.
func (h *Handler) Release() {
	if h.invoked {
		return
	}
	h.scheduler.releaseHandler()
}

var _ dispatchqueue.Scheduler = (*Scheduler)(nil)
