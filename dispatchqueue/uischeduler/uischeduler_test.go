package uischeduler_test

import (
	"testing"
	"time"

	"github.com/joeycumines/dispatchcore/dispatchqueue"
	"github.com/joeycumines/dispatchcore/dispatchqueue/uischeduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIScheduler_HostDropsSecondHandler(t *testing.T) {
	host := uischeduler.NewChannelHostDispatcher()
	sched := uischeduler.New(host)
	svc := dispatchqueue.New(sched)

	require.NoError(t, svc.Post(func() {}))
	require.NoError(t, svc.Post(func() {}))
	require.Equal(t, 2, host.Pending())

	require.True(t, host.InvokeNext()) // the host runs the first handler
	require.True(t, host.DropNext())   // and drops the second without running it

	assert.True(t, sched.IsShutdown())
	assert.Equal(t, uint32(0), sched.TaskCount())

	select {
	case <-terminationSignalled(sched):
	case <-time.After(time.Second):
		t.Fatal("termination was not signalled after the host dropped an unexecuted handler")
	}
}

func TestUIScheduler_TasksRunInPostOrder(t *testing.T) {
	host := uischeduler.NewChannelHostDispatcher()
	sched := uischeduler.New(host)
	svc := dispatchqueue.New(sched)

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		require.NoError(t, svc.Post(func() { order = append(order, i) }))
	}

	for host.Pending() > 0 {
		require.True(t, host.InvokeNext())
	}

	assert.Equal(t, []int{0, 1, 2}, order)

	svc.Shutdown(dispatchqueue.DrainThenStop)
	svc.AwaitTermination()
}

func TestUIScheduler_ShutdownDropsAlreadyQueuedHandlerBeforeItRuns(t *testing.T) {
	host := uischeduler.NewChannelHostDispatcher()
	sched := uischeduler.New(host)
	svc := dispatchqueue.New(sched)

	ran := false
	require.NoError(t, svc.Post(func() { ran = true }))
	require.Equal(t, 1, host.Pending())

	// DrainThenStop at the Service level must not resurrect a task whose
	// handler is invoked after the scheduler has already shut down: the
	// handler re-checks is_shutdown before dequeuing and no-ops instead.
	svc.Shutdown(dispatchqueue.DrainThenStop)

	require.True(t, host.InvokeNext())
	assert.False(t, ran, "handler invoked after shutdown must not run its task")
}

func TestUIScheduler_AwaitTerminationFromWithinHandlerDetaches(t *testing.T) {
	host := uischeduler.NewChannelHostDispatcher()
	sched := uischeduler.New(host)
	svc := dispatchqueue.New(sched)

	done := make(chan struct{})
	require.NoError(t, svc.Post(func() {
		svc.AwaitTermination() // must not deadlock: called from within our own handler
		close(done)
	}))
	require.True(t, host.InvokeNext())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("AwaitTermination from within the scheduler's own handler deadlocked")
	}
}

func terminationSignalled(sched *uischeduler.Scheduler) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		sched.AwaitTermination()
		close(ch)
	}()
	return ch
}
