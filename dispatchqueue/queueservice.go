package dispatchqueue

import (
	"sync"
	"time"

	"github.com/joeycumines/dispatchcore/internal/dlog"
	"github.com/joeycumines/dispatchcore/internal/tagcrash"
	"github.com/joeycumines/dispatchcore/objref"
)

// QueueService is the abstract surface a caller posts work through.
// *Service is dispatchcore's only implementation; the interface exists so
// callers (and the schedulers themselves, via the objref.WeakRef New wires
// up) can depend on the behavior without the concrete type.
type QueueService interface {
	Post(task Task) error
	TryDequeueTask() (Task, bool)
	HasTasks() bool
	InvokeTask(task Task, deadline *time.Time)
	Shutdown(action ShutdownAction)
	AwaitTermination()
	HasThreadAccess() bool
	IsSerial() bool
}

// Service is the FIFO queue collaborator of spec.md §4.4: a mutex-guarded
// slice of TimedTask, drained by whichever Scheduler it was constructed
// with. It holds a self-referential StrongRef/WeakRef pair purely so its
// Scheduler can observe "has this Service been shut down" through the
// object model rather than a bespoke boolean channel, exercising the same
// ControlBlock machinery objref.Make uses.
type Service struct {
	mu                   sync.Mutex
	cond                 *sync.Cond
	tasks                []TimedTask
	scheduler            Scheduler
	isShutdown           bool
	postPanicsOnShutdown bool
	selfStrong           objref.StrongRef[Service]
}

var _ QueueService = (*Service)(nil)

// New constructs a Service bound to scheduler and calls
// scheduler.InitializeScheduler exactly once before returning.
func New(scheduler Scheduler, opts ...Option) *Service {
	s := &Service{scheduler: scheduler}
	s.cond = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt.apply(s)
	}

	cb := objref.NewControlBlock(true, func() {}, func() {})
	s.selfStrong = objref.Attach(s, cb)
	weak, _ := s.selfStrong.Weak()
	scheduler.InitializeScheduler(weak)
	return s
}

// Post appends task to the FIFO and notifies the scheduler. It returns
// ErrQueueShutdown (or, under WithPostPanicsOnShutdown, crashes) if the
// queue has already been shut down.
func (s *Service) Post(task Task) error {
	s.mu.Lock()
	if s.isShutdown {
		s.mu.Unlock()
		if s.postPanicsOnShutdown {
			tagcrash.Crash("dispatchqueue", TagPostAfterShutdown, "Post called after Shutdown")
		}
		return ErrQueueShutdown
	}
	s.tasks = append(s.tasks, TimedTask{Task: task})
	s.mu.Unlock()
	s.cond.Signal()
	s.scheduler.Post()
	return nil
}

// TryDequeueTask pops the oldest queued task, if any.
func (s *Service) TryDequeueTask() (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 {
		return nil, false
	}
	t := s.tasks[0]
	s.tasks[0] = TimedTask{}
	s.tasks = s.tasks[1:]
	return t.Task, true
}

// HasTasks reports whether the FIFO is non-empty.
func (s *Service) HasTasks() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks) > 0
}

// InvokeTask runs task, logging (at debug level) if deadline has already
// passed. It does not recover panics: a scheduler that wants crash
// isolation per task wraps the call itself.
func (s *Service) InvokeTask(task Task, deadline *time.Time) {
	if deadline != nil && time.Now().After(*deadline) {
		dlog.Global().Log(dlog.Entry{
			Level:    dlog.LevelDebug,
			Category: "dispatchqueue",
			Message:  "invoking task past its deadline",
		})
	}
	task()
}

// Shutdown marks the queue shut down, optionally discarding unstarted
// tasks, then forwards to the scheduler. The Service's own self-reference
// is released only once the scheduler has actually finished terminating
// (see awaitThenRelease): workers still draining the FIFO under
// DrainThenStop keep upgrading the owner WeakRef on every loop iteration,
// so dropping the strong count to zero here would make that upgrade fail
// and send every worker down the "owner gone" path instead of letting it
// drain, collapsing DrainThenStop into CancelRemaining.
func (s *Service) Shutdown(action ShutdownAction) {
	s.mu.Lock()
	if s.isShutdown {
		s.mu.Unlock()
		return
	}
	s.isShutdown = true
	if action == CancelRemaining {
		s.tasks = nil
	}
	s.mu.Unlock()
	s.cond.Broadcast()

	s.scheduler.Shutdown()
	go s.awaitThenRelease()
}

// awaitThenRelease blocks until the scheduler has fully terminated, then
// releases the Service's self-reference. It always runs on a goroutine of
// its own (never a scheduler-managed worker), so the scheduler's
// AwaitTermination detach rule never short-circuits this wait.
func (s *Service) awaitThenRelease() {
	s.scheduler.AwaitTermination()
	s.selfStrong.Close()
}

// AwaitTermination blocks until the scheduler's goroutines have exited.
func (s *Service) AwaitTermination() {
	s.scheduler.AwaitTermination()
}

// HasThreadAccess reports whether the calling goroutine is managed by this
// Service's scheduler.
func (s *Service) HasThreadAccess() bool {
	return s.scheduler.HasThreadAccess()
}

// IsSerial reports whether this Service's scheduler runs at most one task
// at a time.
func (s *Service) IsSerial() bool {
	return s.scheduler.IsSerial()
}

// WaitForTask blocks until a task is available or the queue has been shut
// down, returning false in the latter case with no task dequeued. It is
// used by schedulers (dispatchqueue/threadpool) whose worker loop wants to
// park instead of spinning.
func (s *Service) WaitForTask() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.tasks) == 0 && !s.isShutdown {
		s.cond.Wait()
	}
	return len(s.tasks) > 0
}

// IsShutdown reports whether Shutdown has already been called.
func (s *Service) IsShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isShutdown
}
