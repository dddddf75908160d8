// Mutex: a single-owner lock built on the event mechanism. No priority
// inheritance (see spec Non-goals): Owner is kept only for introspection,
// not consulted by the scheduler.

package librertos_internal

// Mutex is a binary lock. The zero value is not usable; call Init first.
// A lock attempt on an already-locked mutex can try-fail (Lock) or pend on
// the readers side of the mutex's event (LockPend), per §4.8: a mutex has
// no writers, only a single list of tasks waiting for it to unlock.
type Mutex struct {
	Event

	locked bool
	owner  *Task
}

// Init (re)initializes m to the unlocked state with no owner.
func (m *Mutex) Init() {
	m.Event.Init()
	m.locked = false
	m.owner = nil
}

// Lock attempts to acquire m without blocking. Reports whether it
// succeeded; false means the mutex was already locked.
func (m *Mutex) Lock() bool {
	CriticalEnter()
	defer CriticalExit()

	if m.locked {
		return false
	}
	m.locked = true
	m.owner = K.currentTask
	return true
}

// Unlock releases m and wakes the highest-priority pending locker, if any.
// Reports whether the mutex had been locked; false means it was already
// unlocked (a no-op).
func (m *Mutex) Unlock() bool {
	CriticalEnter()

	if !m.locked {
		CriticalExit()
		return false
	}

	m.locked = false
	m.owner = nil

	SchedulerLock()
	if m.waitingReaders.Len() != 0 {
		K.unblockTasks(m.waitingReaders)
	}
	CriticalExit()
	SchedulerUnlock()
	return true
}

// LockPend attempts to acquire m, pending the calling task (for up to
// ticksToWait ticks; MaxDelay waits forever) if it is already locked. Must
// only be called from a task.
func (m *Mutex) LockPend(ticksToWait Tick) bool {
	if m.Lock() {
		return true
	}
	m.PendLock(ticksToWait)
	return false
}

// PendLock blocks the calling task until m is unlocked, or ticksToWait
// ticks pass. A no-op if ticksToWait is 0. Woken tasks do not automatically
// hold the mutex on return from pend: the caller is expected to retry Lock,
// matching the original's "FAIL means try again" pend contract.
func (m *Mutex) PendLock(ticksToWait Tick) {
	if ticksToWait == 0 {
		return
	}

	SchedulerLock()
	CriticalEnter()
	if m.locked {
		task := K.currentTask
		prePend(m.waitingReaders, task)
		CriticalExit()
		K.pend(task, ticksToWait)
	} else {
		CriticalExit()
	}
	SchedulerUnlock()
}

// IsLocked reports whether m is currently locked.
func (m *Mutex) IsLocked() bool {
	CriticalEnter()
	defer CriticalExit()
	return m.locked
}

// Owner returns the task currently holding m, or nil if unlocked.
func (m *Mutex) Owner() *Task {
	CriticalEnter()
	defer CriticalExit()
	return m.owner
}
