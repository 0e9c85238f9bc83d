// Package threadpool implements dispatchqueue's dynamically growing
// worker-pool Scheduler (spec.md §4.5.1): tasks are run on whichever worker
// goroutine is free, new workers are spawned on demand up to a configured
// cap, and idle workers park on a condition variable rather than spin.
package threadpool

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/dispatchcore/dispatchqueue"
	"github.com/joeycumines/dispatchcore/internal/goroutineid"
	"github.com/joeycumines/dispatchcore/objref"
)

// DefaultMaxThreads is used when New is called with maxThreads == 0.
const DefaultMaxThreads = 64

// activeSchedulers maps a worker goroutine's ID to the *Scheduler that
// spawned it, the goroutine-scoped analogue of a thread-local "which
// scheduler owns this thread" flag (see internal/goroutineid).
var activeSchedulers sync.Map // uint64 -> *Scheduler

// Scheduler is a dynamically growing worker pool. The zero value is not
// usable; construct with New.
type Scheduler struct {
	maxThreads  uint32
	busyThreads atomic.Uint32
	threadCount atomic.Uint32
	isShutdown  atomic.Bool
	mu          sync.Mutex
	cond        *sync.Cond
	wg          sync.WaitGroup
	owner       objref.WeakRef[dispatchqueue.Service]
}

var _ dispatchqueue.Scheduler = (*Scheduler)(nil)

// New constructs a Scheduler capped at maxThreads concurrent workers. A
// maxThreads of zero selects DefaultMaxThreads.
func New(maxThreads uint32) *Scheduler {
	if maxThreads == 0 {
		maxThreads = DefaultMaxThreads
	}
	s := &Scheduler{maxThreads: maxThreads}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// InitializeScheduler implements dispatchqueue.Scheduler.
func (s *Scheduler) InitializeScheduler(owner objref.WeakRef[dispatchqueue.Service]) {
	s.owner = owner
}

// HasThreadAccess implements dispatchqueue.Scheduler: true iff the calling
// goroutine is one of this Scheduler's own workers.
func (s *Scheduler) HasThreadAccess() bool {
	v, ok := activeSchedulers.Load(goroutineid.Current())
	if !ok {
		return false
	}
	owner, _ := v.(*Scheduler)
	return owner == s
}

// IsSerial implements dispatchqueue.Scheduler: true iff this pool is capped
// at a single worker, in which case tasks necessarily run one at a time.
func (s *Scheduler) IsSerial() bool {
	return s.maxThreads == 1
}

// BusyThreads reports how many workers are currently executing a task.
func (s *Scheduler) BusyThreads() uint32 {
	return s.busyThreads.Load()
}

// ThreadCount reports how many worker goroutines have been spawned so far.
func (s *Scheduler) ThreadCount() uint32 {
	return s.threadCount.Load()
}

// Post implements dispatchqueue.Scheduler: grows the pool if every existing
// worker is busy and the cap allows it, then signals the Scheduler's cond.
// Idle workers park on the Service's own condition variable (see
// Service.WaitForTask), which Service.Post signals before calling here.
func (s *Scheduler) Post() {
	if s.isShutdown.Load() {
		return
	}
	s.maybeGrow()
	s.mu.Lock()
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *Scheduler) maybeGrow() {
	for {
		busy := s.busyThreads.Load()
		total := s.threadCount.Load()
		if busy < total {
			return // an idle worker already exists
		}
		if total >= s.maxThreads {
			return // at capacity; the posted task waits for a worker to free up
		}
		if s.threadCount.CompareAndSwap(total, total+1) {
			s.spawnWorker()
			return
		}
	}
}

func (s *Scheduler) spawnWorker() {
	s.wg.Add(1)
	go s.workerLoop()
}

func (s *Scheduler) workerLoop() {
	defer s.wg.Done()

	gid := goroutineid.Current()
	activeSchedulers.Store(gid, s)
	defer activeSchedulers.Delete(gid)

	for {
		svc, ok := s.ownerService()
		if !ok {
			return
		}
		if !svc.WaitForTask() {
			return // shut down with nothing left to drain
		}
		task, ok := svc.TryDequeueTask()
		if !ok {
			continue
		}

		s.busyThreads.Add(1)
		svc.InvokeTask(task, nil)
		s.busyThreads.Add(^uint32(0)) // -1
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

// Shutdown implements dispatchqueue.Scheduler: marks the pool shut down so
// later Post calls do nothing, and broadcasts on the Scheduler's cond.
// Parked workers are woken by Service.Shutdown's broadcast on the Service's
// condition variable, after which they observe its shutdown state and exit.
func (s *Scheduler) Shutdown() {
	s.isShutdown.Store(true)
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

// AwaitTermination implements dispatchqueue.Scheduler. Per spec.md's
// detach rule, a worker calling AwaitTermination on its own Scheduler
// returns immediately instead of deadlocking on its own WaitGroup.
func (s *Scheduler) AwaitTermination() {
	if s.HasThreadAccess() {
		return
	}
	s.wg.Wait()
}
