package dispatchqueue

import "github.com/joeycumines/dispatchcore/objref"

// Scheduler drives a Service: it decides how and when TryDequeueTask is
// polled and InvokeTask is called (spec.md §4.4/§4.5). dispatchqueue ships
// two implementations, in sibling packages: dispatchqueue/threadpool (a
// dynamically growing worker pool) and dispatchqueue/uischeduler (a
// single-threaded cooperative scheduler riding a host event loop).
type Scheduler interface {
	// InitializeScheduler is called exactly once, by New, before the
	// Service is returned to its caller. The WeakRef lets the scheduler
	// check the owning Service's state (e.g. whether it's still present)
	// without taking ownership of it.
	InitializeScheduler(owner objref.WeakRef[Service])
	// HasThreadAccess reports whether the calling goroutine is one the
	// scheduler itself manages (a pool worker, or the UI thread).
	HasThreadAccess() bool
	// IsSerial reports whether at most one task runs at a time.
	IsSerial() bool
	// Post notifies the scheduler that a new task is available.
	Post()
	// Shutdown begins scheduler teardown; it must not block.
	Shutdown()
	// AwaitTermination blocks until every scheduler-owned goroutine has
	// exited, except when called from one of those goroutines themselves
	// (spec.md's "detach on self-await" rule), in which case it returns
	// immediately.
	AwaitTermination()
}

// ShutdownAction selects what happens to tasks still queued at the moment
// Service.Shutdown is called.
type ShutdownAction int

const (
	// DrainThenStop runs every already-queued task to completion before the
	// scheduler's goroutines exit.
	DrainThenStop ShutdownAction = iota
	// CancelRemaining discards every queued task that has not yet started.
	CancelRemaining
)

func (a ShutdownAction) String() string {
	switch a {
	case DrainThenStop:
		return "DrainThenStop"
	case CancelRemaining:
		return "CancelRemaining"
	default:
		return "ShutdownAction(?)"
	}
}
