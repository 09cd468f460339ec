// Package mnrt implements a cooperative, M:N task-scheduling runtime: many
// user tasks multiplexed onto a small, fixed pool of OS-thread-backed
// workers.
//
// # Core model
//
//   - Task: an entry function plus an opaque argument, a lifecycle state
//     (NEW, READY, RUNNING, BLOCKED, FINISHED), and the bookkeeping needed
//     to suspend and resume it in place (see Task).
//   - Scheduler: owns the ready queue and the worker pool, and exposes the
//     lifecycle operations (Create, Start, Stop, Destroy, AddTask, Spawn).
//   - Cooperative API: Yield, Join, Sleep, Current. Yield, Join on a
//     still-running target, Sleep, and returning from the entry function
//     are the only four places a task's code may suspend; Current never
//     suspends. Everything else runs straight through.
//
// # Concurrency
//
// A single mutex protects the ready queue, every task's state, every
// worker's current task, joiner back-links, and the running flag. Tasks
// run uninterrupted on a worker until they explicitly call Yield, Join on
// a still-running target, Sleep, or return: there is no preemption.
//
// # What "OS thread" means here
//
// This module backs each Task with its own goroutine, parked on a channel
// whenever it is not RUNNING, instead of a hand-rolled register/stack-swap
// primitive. Go gives every goroutine its own growable stack already;
// reusing that instead of reimplementing it is what makes the scheduling
// logic below readable as plain channel and mutex code.
package mnrt
