// Package librertos_internal implements the core of a portable, single-stack
// cooperative/preemptive real-time kernel: a fixed-priority task scheduler,
// the event mechanism used to pend and unblock tasks, and the variable-length
// FIFO queue that is the canonical consumer of both.
//
// Tasks are run-to-completion invocations on the caller's own stack.
// "Blocking" means a task function returns after registering itself on an
// event list; it is reinvoked, from the top, the next time the scheduler
// picks it up.
package librertos_internal
