package mnrt

import (
	"context"
	"fmt"
	"sync/atomic"
)

// DefaultStackSize is the stack size recorded for a task when none is given
// to NewTask. Go manages the goroutine's real stack dynamically; this value
// is advisory, surfaced via Task.StackSize for diagnostics, and is never
// used to preallocate an arena.
const DefaultStackSize = 64 * 1024

// State is the lifecycle state of a Task. Transitions are performed under
// the owning Scheduler's mutex, including the NEW->READY transition inside
// Spawn/AddTask, which takes the mutex as part of enqueueing.
type State int32

const (
	StateNew State = iota
	StateReady
	StateRunning
	StateBlocked
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateBlocked:
		return "BLOCKED"
	case StateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// EntryFunc is the body of a task. ctx carries the task's own identity
// (retrievable via Current) and is otherwise an ordinary context.Context:
// cancellation is not wired to scheduler shutdown (see Scheduler.Stop).
type EntryFunc func(ctx context.Context, arg any)

// Task is one cooperative unit of execution: an entry function, its opaque
// argument, a lifecycle state, and the bookkeeping needed to suspend and
// resume it in place.
//
// A Task's "stack" is a dedicated goroutine parked on resumeCh whenever it
// is not RUNNING; Go preserves that goroutine's full stack and registers
// while parked, so each task keeps its own call stack isolated from every
// other task without a hand-rolled context-switch primitive.
type Task struct {
	id        uint64
	entry     EntryFunc
	arg       any
	stackSize int

	sched *Scheduler

	// state is read/written only under sched.mu, except for the initial
	// NEW value set at construction before the task is visible to anyone
	// else.
	state State

	// next links this task into the scheduler's ready queue. A task is a
	// member of at most one queue at a time.
	next *Task

	// waiting is this task's joiner: the task currently blocked in Join
	// awaiting this task's completion. At most one may wait at a time.
	waiting *Task

	// worker is the worker that most recently dispatched this task: it is
	// the in-memory substitute for "current worker id in thread-local
	// storage". Written under sched.mu at dispatch, read under sched.mu
	// when the task suspends, to know which worker's resumeAck channel
	// hands control back.
	worker *worker

	// resumeCh is signalled by whichever worker dispatches this task,
	// whether for the very first time or after a prior suspension.
	resumeCh chan struct{}

	destroyed int32
}

// taskCtxKey is the context.Context key under which the running Task is
// stored, in place of OS-thread-local "current task" storage.
type taskCtxKey struct{}

// NewTask constructs a Task in state NEW, bound to sched, with its backing
// goroutine created and parked awaiting its first dispatch. It does not
// enqueue the task; use Scheduler.AddTask or Scheduler.Spawn for that.
//
// stackSize is advisory (see DefaultStackSize); pass 0 to use the default.
func NewTask(sched *Scheduler, entry EntryFunc, arg any, stackSize int) (*Task, error) {
	if sched == nil {
		return nil, ErrNilScheduler
	}
	if entry == nil {
		return nil, ErrNilEntryFunc
	}
	t := &Task{
		entry:    entry,
		arg:      arg,
		sched:    sched,
		state:    StateNew,
		resumeCh: make(chan struct{}),
	}

	sched.mu.Lock()
	if stackSize <= 0 {
		stackSize = sched.stackSize
	}
	t.stackSize = stackSize
	t.id = sched.nextID
	sched.nextID++
	sched.mu.Unlock()

	sched.startTaskGoroutine(t)
	return t, nil
}

// ID returns the task's unique, monotonically increasing identifier.
func (t *Task) ID() uint64 { return t.id }

// StackSize returns the stack size this task was created with. Advisory
// only; Go's real goroutine stack grows and shrinks independently of it.
func (t *Task) StackSize() int { return t.stackSize }

// State returns the task's current lifecycle state. Safe for concurrent
// use; it takes the scheduler mutex to match the discipline every other
// state read/write follows.
func (t *Task) State() State {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	return t.state
}

// Cleanup releases the task's resources. The caller must guarantee the
// task is FINISHED; calling Cleanup on a task that is RUNNING or BLOCKED,
// or calling it twice, is a contract violation and returns an error
// rather than corrupting scheduler state.
func (t *Task) Cleanup() error {
	if !atomic.CompareAndSwapInt32(&t.destroyed, 0, 1) {
		return ErrTaskDestroyed
	}
	t.sched.mu.Lock()
	state := t.state
	t.sched.mu.Unlock()
	if state != StateFinished {
		atomic.StoreInt32(&t.destroyed, 0)
		return fmt.Errorf("cleanup task %d: %w", t.id, ErrTaskNotFinished)
	}
	// Once state is FINISHED the backing goroutine never reads resumeCh
	// again: its only remaining step is handing control back to the
	// worker, after which it exits. Dropping the last reference to resumeCh
	// lets it be collected; nothing further to release since no fixed
	// stack arena was allocated.
	t.resumeCh = nil
	return nil
}

// taskFromContext returns the Task stored in ctx, or nil if ctx carries
// none (i.e. the call did not originate from inside a task's entry
// function).
func taskFromContext(ctx context.Context) *Task {
	t, _ := ctx.Value(taskCtxKey{}).(*Task)
	return t
}

// Current returns the Task currently executing on behalf of ctx, or nil if
// ctx was not derived from a task's entry context (e.g. called from
// application startup code outside any task).
func Current(ctx context.Context) *Task {
	return taskFromContext(ctx)
}
