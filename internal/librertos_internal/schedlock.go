// Scheduler lock: a depth-counted, deferred-wakeup region.
//
// While the scheduler lock is held, unblockTasks is permitted to run and its
// effect (moving a task from an event list to a ready list) takes place
// immediately, but the dispatcher will not pick a new task to run until the
// outermost SchedulerUnlock releases it. The scheduler lock and the critical
// section are orthogonal and may nest in either order; releasing the
// scheduler lock never re-enables interrupts by itself.

package librertos_internal

import "sync/atomic"

var schedulerLockDepth int32

// SchedulerLock enters the deferred-wakeup region. Reentrant: nesting depth
// is counted.
func SchedulerLock() {
	atomic.AddInt32(&schedulerLockDepth, 1)
}

// SchedulerUnlock leaves one level of the deferred-wakeup region.
func SchedulerUnlock() {
	atomic.AddInt32(&schedulerLockDepth, -1)
}

// schedulerLocked reports whether the scheduler lock is currently held at
// any depth; Sched defers dispatch while this holds.
func schedulerLocked() bool {
	return atomic.LoadInt32(&schedulerLockDepth) > 0
}
