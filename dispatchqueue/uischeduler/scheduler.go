package uischeduler

import (
	"sync"
	"time"

	"github.com/joeycumines/dispatchcore/dispatchqueue"
	"github.com/joeycumines/dispatchcore/internal/dlog"
	"github.com/joeycumines/dispatchcore/internal/goroutineid"
	"github.com/joeycumines/dispatchcore/objref"
)

// uiTickDeadline is the "current time + 1/60s" default handler deadline
// (spec.md §4.5.2).
const uiTickDeadline = time.Second / 60

// activeSchedulers maps a goroutine ID to the *Scheduler currently
// invoking a handler on it, the same goroutine-scoped-stack idiom
// threadpool uses for HasThreadAccess.
var activeSchedulers sync.Map // uint64 -> *Scheduler

// Scheduler is a single-threaded cooperative Scheduler riding a
// HostDispatcher. The zero value is not usable; construct with New.
type Scheduler struct {
	mu              sync.Mutex
	host            HostDispatcher
	owner           objref.WeakRef[dispatchqueue.Service]
	selfStrong      objref.StrongRef[Scheduler]
	taskCount       uint32
	handlerRefCount uint32
	isShutdown      bool
	terminated      chan struct{}
	termOnce        sync.Once
}

// New constructs a Scheduler that posts its handlers to host.
func New(host HostDispatcher) *Scheduler {
	return &Scheduler{host: host, terminated: make(chan struct{})}
}

// InitializeScheduler implements dispatchqueue.Scheduler.
func (s *Scheduler) InitializeScheduler(owner objref.WeakRef[dispatchqueue.Service]) {
	s.owner = owner
}

// HasThreadAccess implements dispatchqueue.Scheduler: true iff the calling
// goroutine is presently inside one of this Scheduler's own handlers.
func (s *Scheduler) HasThreadAccess() bool {
	v, ok := activeSchedulers.Load(goroutineid.Current())
	if !ok {
		return false
	}
	owner, _ := v.(*Scheduler)
	return owner == s
}

// IsSerial implements dispatchqueue.Scheduler: always true.
func (s *Scheduler) IsSerial() bool {
	return true
}

// Post implements dispatchqueue.Scheduler. If the scheduler has already
// shut down the post is silently dropped (spec.md's stated behavior for
// this scheduler, distinct from dispatchqueue.Service's own post-after-
// shutdown policy). Otherwise task_count and handler_ref_count are
// incremented, a self-StrongRef is parked on the first in-flight handler,
// and a Handler is handed to the host outside the lock.
func (s *Scheduler) Post() {
	s.mu.Lock()
	if s.isShutdown {
		s.mu.Unlock()
		return
	}
	s.taskCount++
	s.handlerRefCount++
	if s.handlerRefCount == 1 {
		cb := objref.NewControlBlock(false, func() {}, func() {})
		s.selfStrong = objref.Attach(s, cb)
	}
	s.mu.Unlock()

	if err := s.host.RunAsync(&Handler{scheduler: s}); err != nil {
		dlog.Global().Log(dlog.Entry{
			Level:    dlog.LevelError,
			Category: "uischeduler",
			Message:  "host RunAsync failed",
			Err:      err,
		})
	}
}

func (s *Scheduler) invokeHandler() {
	gid := goroutineid.Current()
	activeSchedulers.Store(gid, s)
	defer activeSchedulers.Delete(gid)

	s.mu.Lock()
	s.taskCount--
	shutdown := s.isShutdown
	s.mu.Unlock()
	if shutdown {
		// Shut down between Post and this handler running: drop the task
		// rather than dequeue it, per the documented late-handler decision.
		return
	}

	svc, ok := s.ownerService()
	if !ok {
		return
	}
	task, ok := svc.TryDequeueTask()
	if !ok {
		return
	}
	deadline := time.Now().Add(uiTickDeadline)
	svc.InvokeTask(task, &deadline)
}

// releaseHandler implements the "handler release" path of spec.md §4.5.2:
// called once per handler, whether it ran or was dropped unexecuted.
func (s *Scheduler) releaseHandler() {
	s.mu.Lock()
	s.handlerRefCount--
	cascade := false
	signal := false
	if s.handlerRefCount == 0 {
		if s.taskCount > 0 {
			// The host dropped one or more unexecuted handlers.
			s.isShutdown = true
			s.taskCount = 0
			cascade = true
		}
		if s.isShutdown {
			signal = true
		}
		s.selfStrong.Close()
	}
	s.mu.Unlock()

	if cascade {
		if svc, ok := s.ownerService(); ok {
			svc.Shutdown(dispatchqueue.CancelRemaining)
		}
	}
	if signal {
		s.signalTerminated()
	}
}

func (s *Scheduler) ownerService() (*dispatchqueue.Service, bool) {
	ref, ok := s.owner.Upgrade()
	if !ok {
		return nil, false
	}
	svc := ref.Get()
	ref.Close()
	return svc, true
}

func (s *Scheduler) signalTerminated() {
	s.termOnce.Do(func() { close(s.terminated) })
}

// Shutdown implements dispatchqueue.Scheduler: sets is_shutdown and, if no
// handlers are currently outstanding, signals termination immediately.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.isShutdown = true
	noHandlersInFlight := s.handlerRefCount == 0
	s.mu.Unlock()
	if noHandlersInFlight {
		s.signalTerminated()
	}
}

// AwaitTermination implements dispatchqueue.Scheduler: calls Shutdown,
// then waits on the termination event, unless called from within one of
// this scheduler's own handlers (the UI-scheduler analogue of the
// thread-pool detach rule), in which case it returns immediately.
func (s *Scheduler) AwaitTermination() {
	s.Shutdown()
	if s.HasThreadAccess() {
		return
	}
	<-s.terminated
}

// TaskCount reports the scheduler's current task_count, for tests.
func (s *Scheduler) TaskCount() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskCount
}

// IsShutdown reports whether Shutdown (or an equivalent cascade) has run.
func (s *Scheduler) IsShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isShutdown
}
