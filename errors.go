package mnrt

import "errors"

// Sentinel errors returned by the scheduler and task APIs. Call sites wrap
// these with fmt.Errorf("...: %w", ...) when additional context helps.
var (
	// ErrInvalidWorkerCount is returned by Create when the requested worker
	// count is outside [1, MaxWorkers].
	ErrInvalidWorkerCount = errors.New("mnrt: worker count must be between 1 and MaxWorkers")

	// ErrNilEntryFunc is returned by Spawn/NewTask when the entry function is nil.
	ErrNilEntryFunc = errors.New("mnrt: entry function must not be nil")

	// ErrNilScheduler is returned when an operation is given a nil scheduler handle.
	ErrNilScheduler = errors.New("mnrt: scheduler must not be nil")

	// ErrNilTask is returned when an operation is given a nil task handle.
	ErrNilTask = errors.New("mnrt: task must not be nil")

	// ErrSchedulerNotRunning is returned by AddTask/Spawn when Start has not
	// been called (or Stop has already been called).
	ErrSchedulerNotRunning = errors.New("mnrt: scheduler is not running")

	// ErrTaskAlreadyHasJoiner is returned by Join when the target task already
	// has a joiner. Concurrent joiners on one target are a contract
	// violation; this module turns that into an explicit error instead of
	// silently dropping one of the joiners.
	ErrTaskAlreadyHasJoiner = errors.New("mnrt: task already has a joiner")

	// ErrTaskNotFinished is returned by Cleanup when called on a task that
	// has not reached StateFinished.
	ErrTaskNotFinished = errors.New("mnrt: task is not finished")

	// ErrTaskDestroyed is returned when an operation is attempted against a
	// task whose Cleanup has already run.
	ErrTaskDestroyed = errors.New("mnrt: task has already been destroyed")

	// ErrNoCurrentTask is returned by Join when called outside of any task,
	// where "who is blocking" is undefined.
	ErrNoCurrentTask = errors.New("mnrt: no current task for this call")
)
