// Package dispatchqueue implements dispatchcore's scheduler-agnostic task
// queue: a FIFO of work items posted from any goroutine, drained by exactly
// one Scheduler implementation (thread-pool or cooperative UI), matching
// spec.md §4.4.
package dispatchqueue

import "time"

// Task is a unit of work posted to a QueueService.
type Task func()

// TimedTask pairs a Task with an optional deadline, the Go analogue of the
// original collaborator's deadline-tagged work item. A nil Deadline means
// "no deadline".
type TimedTask struct {
	Task     Task
	Deadline *time.Time
}
