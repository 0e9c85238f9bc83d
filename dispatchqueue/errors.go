package dispatchqueue

import "errors"

// ErrQueueShutdown is returned by Service.Post once the queue has been
// shut down (spec.md §9 open question 3's default policy: propagate rather
// than crash). See WithPostPanicsOnShutdown for the literal-parity option.
var ErrQueueShutdown = errors.New("dispatchqueue: queue is shut down")

// Crash tags for internal/tagcrash.Crash call sites in this package.
const (
	TagPostAfterShutdown uint32 = 0x64737101 // "dsq\x01"
)
