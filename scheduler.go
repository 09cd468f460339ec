package mnrt

import (
	"context"
	"fmt"
	"sync"

	"github.com/mnrt-go/mnrt/pkg/mnlog"
)

// MaxWorkers bounds the worker count Create will accept.
const MaxWorkers = 64

// Scheduler owns the ready queue, the worker pool, and the global
// lifecycle flag. All task state transitions, ready-queue mutations, and
// worker bookkeeping happen under mu; cond is the paired condition
// variable workers wait on for new work or shutdown.
type Scheduler struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue   *readyQueue
	workers []*worker
	running bool
	nextID  uint64

	// stackSize is the advisory stack size recorded on tasks created with
	// a zero stack size. DefaultStackSize unless overridden.
	stackSize int

	wg  sync.WaitGroup
	log *mnlog.Logger

	// stats are best-effort counters for Stats(); not part of the
	// scheduling contract itself.
	spawned  uint64
	finished uint64
}

// Create validates numWorkers and returns a Scheduler ready for Start.
// numWorkers must be in [1, MaxWorkers].
func Create(numWorkers int) (*Scheduler, error) {
	if numWorkers < 1 || numWorkers > MaxWorkers {
		return nil, fmt.Errorf("create scheduler with %d workers: %w", numWorkers, ErrInvalidWorkerCount)
	}

	s := &Scheduler{
		nextID:    1,
		stackSize: DefaultStackSize,
		log:       mnlog.GetGlobalLogger().WithComponent("mnrt"),
	}
	s.cond = sync.NewCond(&s.mu)
	s.queue = newReadyQueue(&s.mu)
	s.workers = make([]*worker, numWorkers)
	for i := range s.workers {
		s.workers[i] = newWorker(i, s)
	}
	return s, nil
}

// Start is idempotent: calling it while already running is a no-op.
// Otherwise it marks the scheduler running and spawns one goroutine per
// worker, each running the dispatch loop bound to its stable id.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	for _, w := range s.workers {
		s.wg.Add(1)
		go w.loop()
	}
	s.log.Infof("scheduler started with %d workers", len(s.workers))
	return nil
}

// Stop is idempotent: calling it while not running returns nil without
// further action. Otherwise it clears running, broadcasts the condition
// variable so every blocked worker re-checks its predicate, and waits for
// every worker loop to exit.
//
// Stop does not cancel in-flight tasks. A task that never reaches a
// suspension point keeps its worker busy forever, and Stop will block
// until it does.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cond.Broadcast()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Infof("scheduler stopped")
	return nil
}

// Destroy implies Stop, then releases scheduler-owned resources. Task
// objects that are still alive (e.g. never joined) remain the caller's
// responsibility.
func (s *Scheduler) Destroy() error {
	if err := s.Stop(); err != nil {
		return err
	}
	s.mu.Lock()
	s.queue = nil
	s.workers = nil
	s.mu.Unlock()
	return nil
}

// AddTask transitions t to READY and pushes it onto the ready queue,
// signalling one waiting worker. Safe to call from outside any task (e.g.
// at program startup) or from within one (to spawn a child task).
func (s *Scheduler) AddTask(t *Task) error {
	if t == nil {
		return ErrNilTask
	}
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	t.state = StateReady
	s.queue.PushLocked(t)
	s.spawned++
	s.mu.Unlock()
	s.cond.Signal()
	return nil
}

// SetDefaultStackSize sets the advisory stack size recorded on tasks
// created with a zero stack size. Sizes <= 0 reset to DefaultStackSize.
func (s *Scheduler) SetDefaultStackSize(size int) {
	if size <= 0 {
		size = DefaultStackSize
	}
	s.mu.Lock()
	s.stackSize = size
	s.mu.Unlock()
}

// Spawn creates a new task bound to this scheduler and immediately makes
// it READY, combining NewTask and AddTask into a single call.
func (s *Scheduler) Spawn(entry EntryFunc, arg any) (*Task, error) {
	return s.SpawnWithStack(entry, arg, 0)
}

// SpawnWithStack is Spawn with an explicit (advisory) stack size.
func (s *Scheduler) SpawnWithStack(entry EntryFunc, arg any, stackSize int) (*Task, error) {
	t, err := NewTask(s, entry, arg, stackSize)
	if err != nil {
		return nil, err
	}
	if err := s.AddTask(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Stats is a read-only snapshot of scheduler activity, built from the same
// counters the dispatch path already maintains. It adds observability, not
// scheduling behavior.
type Stats struct {
	WorkerCount int
	Queued      int
	Spawned     uint64
	Finished    uint64
}

// Stats returns a snapshot of current scheduler activity.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	queued := 0
	if s.queue != nil {
		queued = s.queue.SizeLocked()
	}
	return Stats{
		WorkerCount: len(s.workers),
		Queued:      queued,
		Spawned:     s.spawned,
		Finished:    s.finished,
	}
}

// startTaskGoroutine spawns the goroutine that backs t: the entry
// trampoline. The goroutine is created immediately (state NEW) but parks
// on resumeCh until the first dispatch.
func (s *Scheduler) startTaskGoroutine(t *Task) {
	go func() {
		<-t.resumeCh // wait for the first dispatch

		ctx := context.WithValue(context.Background(), taskCtxKey{}, t)
		t.entry(ctx, t.arg)

		// Mark FINISHED and wake any joiner, under mu.
		s.mu.Lock()
		t.state = StateFinished
		t.worker.current = nil
		s.finished++
		var joiner *Task
		if t.waiting != nil {
			joiner = t.waiting
			joiner.state = StateReady
			s.queue.PushLocked(joiner)
			t.waiting = nil
		}
		w := t.worker
		s.mu.Unlock()
		if joiner != nil {
			s.cond.Signal()
		}

		// Final handoff: does not re-enqueue itself (it is FINISHED) and
		// returns control to the dispatching worker.
		w.resumeAck <- struct{}{}
	}()
}
