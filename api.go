package mnrt

import (
	"context"
	"fmt"
	"time"
)

// Yield voluntarily suspends the calling task, returning it to READY and
// the back of the ready queue, then switches to the dispatch context of
// whichever worker is currently running it. On resume the task is RUNNING
// again, not necessarily on the same worker. Calling Yield outside any
// task (ctx carries none) is a no-op.
func Yield(ctx context.Context) {
	t := taskFromContext(ctx)
	if t == nil {
		return
	}
	s := t.sched

	s.mu.Lock()
	w := t.worker
	w.current = nil
	if t.state != StateFinished {
		t.state = StateReady
		s.queue.PushLocked(t)
	}
	s.mu.Unlock()
	s.cond.Signal()

	w.resumeAck <- struct{}{}
	<-t.resumeCh
}

// Join blocks the calling task until target finishes. If target has
// already finished, Join returns immediately without suspending. At most
// one task may be joined on target at a time; a second concurrent Join on
// the same target returns ErrTaskAlreadyHasJoiner instead of silently
// displacing the first joiner.
//
// Join must be called from inside a task; calling it with no current task
// returns ErrNoCurrentTask, since "who is blocking" would otherwise be
// undefined.
func Join(ctx context.Context, target *Task) error {
	if target == nil {
		return ErrNilTask
	}
	caller := taskFromContext(ctx)
	if caller == nil {
		return ErrNoCurrentTask
	}
	s := caller.sched

	s.mu.Lock()
	if target.state == StateFinished {
		s.mu.Unlock()
		return nil
	}
	if target.waiting != nil {
		s.mu.Unlock()
		return fmt.Errorf("join: task %d joining task %d: %w", caller.id, target.id, ErrTaskAlreadyHasJoiner)
	}
	caller.state = StateBlocked
	target.waiting = caller
	w := caller.worker
	w.current = nil
	s.mu.Unlock()

	w.resumeAck <- struct{}{}
	<-caller.resumeCh
	return nil
}

// Sleep suspends the calling task for at least d before it becomes
// eligible for re-dispatch; it offers no hard real-time bound, only that
// at least d elapses and a subsequent re-dispatch occurs. Called outside
// any task, Sleep delegates to a plain blocking time.Sleep.
//
// The wait itself happens on the task's own goroutine, off the scheduler
// mutex, after control has already been handed back to the dispatching
// worker, so a sleeping task never occupies a worker for the duration of
// the sleep.
func Sleep(ctx context.Context, d time.Duration) {
	t := taskFromContext(ctx)
	if t == nil {
		time.Sleep(d)
		return
	}
	s := t.sched

	s.mu.Lock()
	t.state = StateBlocked
	w := t.worker
	w.current = nil
	s.mu.Unlock()

	w.resumeAck <- struct{}{}

	time.Sleep(d)

	s.mu.Lock()
	t.state = StateReady
	// The scheduler may have been destroyed while this task slept; its
	// queue is gone and the task will never be re-dispatched, but the
	// object itself stays valid for the caller.
	if s.queue != nil {
		s.queue.PushLocked(t)
	}
	s.mu.Unlock()
	s.cond.Signal()

	<-t.resumeCh
}
