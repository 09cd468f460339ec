package mnrt

import "runtime"

// worker is one OS-thread-backed dispatcher. Its loop dequeues a ready
// task, hands it control, and waits for control to come back.
//
// Pinning the loop's goroutine to its OS thread (runtime.LockOSThread) is
// the closest available stand-in for a stable worker-owned OS thread: Go
// gives no portable way to name or re-enter a specific OS thread, but it
// does let a goroutine monopolize one for its lifetime, which is what a
// dedicated dispatch loop needs.
type worker struct {
	id    int
	sched *Scheduler

	// current is the task this worker is driving RUNNING, or nil between
	// dispatches. Protected by sched.mu: at most one worker drives a given
	// task at a time.
	current *Task

	// resumeAck is signalled by a task's goroutine when it suspends or
	// finishes, handing control back to this worker's loop.
	resumeAck chan struct{}
}

func newWorker(id int, sched *Scheduler) *worker {
	return &worker{
		id:        id,
		sched:     sched,
		resumeAck: make(chan struct{}),
	}
}

// loop dispatches ready tasks one at a time until the scheduler stops. It
// runs for the lifetime of one Scheduler.Start.
func (w *worker) loop() {
	defer w.sched.wg.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	s := w.sched
	for {
		s.mu.Lock()
		for s.running && s.queue.EmptyLocked() {
			s.cond.Wait()
		}
		if !s.running {
			s.mu.Unlock()
			return
		}

		task := s.queue.PopLocked()
		task.state = StateRunning
		task.worker = w
		w.current = task
		s.mu.Unlock()

		s.log.Debugf("worker %d dispatching task %d", w.id, task.id)

		// Switch from this worker's dispatch context into the task: wake
		// its goroutine, then wait for it to suspend or finish. The task's
		// suspension path clears w.current under the mutex before handing
		// control back, so by the time resumeAck fires this worker is free
		// to dispatch again.
		task.resumeCh <- struct{}{}
		<-w.resumeAck
	}
}
