// Event mechanism: the priority-ordered wait lists that Pend/ReadPend/
// WritePend and the queue and mutex are built on, and the tick-driven
// timeout sweep that wakes tasks whose delay expired.
//
// A task pends on an event by moving off its scheduler list and onto one of
// the event's two wait lists (readers, writers), in descending-priority
// order with ties broken by pend order (earliest pender first). Its
// schedNode — now unused, since the task is off every scheduler list — is
// reused as the link for the kernel-wide delayed list if the pend carries a
// finite timeout, so the tick handler can find it without a second node per
// task. unblockTasks always wakes the head of a wait list: the
// highest-priority, longest-waiting pender.

package librertos_internal

// Event is one wait point: a pair of priority-ordered lists of tasks blocked
// waiting to read and to write, respectively. Queue and Mutex both embed an
// Event; a simple binary event (no associated data, e.g. a "signal") can use
// just one of the two lists and leave the other always empty.
type Event struct {
	waitingReaders *List[Task]
	waitingWriters *List[Task]
}

// Init (re)initializes e to the empty state, no tasks waiting on either side.
func (e *Event) Init() {
	e.waitingReaders = NewList[Task]()
	e.waitingWriters = NewList[Task]()
}

// prePend links task onto eventList in priority order, detaching it from
// whatever scheduler list it is currently on (a ready list, ordinarily; a
// caller never pre-pends a task that is already pended or suspended). Must
// be called with the critical section held. This only stages the task on
// the event; pend finishes the transition by installing the timeout, and
// the caller then releases the scheduler lock.
func prePend(eventList *List[Task], task *Task) {
	Remove(task.schedNode)

	pos := eventList.First()
	for pos != nil && pos.Owner().Priority >= task.Priority {
		pos = nextOrNil(eventList, pos)
	}
	if pos == nil {
		eventList.InsertLast(task.eventNode)
	} else {
		eventList.InsertBefore(pos, task.eventNode)
	}
}

// nextOrNil returns the node after pos in list, or nil once pos is the tail.
func nextOrNil[T any](list *List[T], pos *Node[T]) *Node[T] {
	if pos == list.Last() {
		return nil
	}
	return pos.next
}

// pend finalizes a block that prePend already staged: it installs a timeout
// (unless ticksToWait is MaxDelay, meaning "wait forever") and, if a timeout
// was installed, links the task's now-free schedNode onto the kernel's
// delayed list so TickInterrupt can find it. Callers must hold the
// scheduler lock across prePend and pend so that a wakeup racing in from
// another task or interrupt cannot unblock this task before pend finishes
// installing its timeout; ticksToWait must be > 0 (a caller wanting a
// non-blocking check never calls prePend/pend at all).
func (k *Kernel) pend(task *Task, ticksToWait Tick) {
	CriticalEnter()
	task.status = PendStatusNone

	if ticksToWait == MaxDelay {
		task.timeout = timeoutState{}
		CriticalExit()
		return
	}

	now := k.tick
	task.timeout = timeoutState{waiting: true, wakeTick: now + ticksToWait}
	k.delayed.InsertLast(task.schedNode)
	CriticalExit()
}

// unblockTasks wakes the highest-priority (longest-waiting, among equals)
// task on eventList, if any, moving it to the tail of its priority's ready
// list with PendStatusSuccess. A woken task that was suspended while pended
// gets PendStatusSuccess but stays on the suspended list until Resume.
// Reports whether a task was woken. Callers must already hold both the
// critical section and the scheduler lock: Sched does not dispatch while the
// scheduler lock is held, so the caller (still inside its own critical
// section housekeeping) is never preempted by the task it just woke.
func (k *Kernel) unblockTasks(eventList *List[Task]) bool {
	node := eventList.First()
	if node == nil {
		return false
	}
	task := node.Owner()

	Remove(task.eventNode)
	if task.timeout.waiting && ListOf(task.schedNode) == k.delayed {
		Remove(task.schedNode)
	}
	task.timeout = timeoutState{}
	task.status = PendStatusSuccess
	task.stats.incPendStatus(PendStatusSuccess)

	if ListOf(task.schedNode) == k.suspended {
		return true
	}
	k.ready[task.Priority].InsertLast(task.schedNode)
	return true
}

// wakeExpiredTasks walks the delayed list and wakes every task whose wake
// tick has been reached, with PendStatusTimeout. Called from TickInterrupt
// once per tick, outside the scheduler lock: each woken task is already
// fully detached from its event by the time this returns, so there is
// nothing left for the event side to race against.
func (k *Kernel) wakeExpiredTasks(now Tick) {
	CriticalEnter()
	defer CriticalExit()

	node := k.delayed.First()
	for node != nil {
		task := node.Owner()
		next := nextOrNil(k.delayed, node)

		if !tickBefore(now, task.timeout.wakeTick) {
			Remove(task.schedNode)
			if ListOf(task.eventNode) != nil {
				Remove(task.eventNode)
			}
			task.timeout = timeoutState{}
			task.status = PendStatusTimeout
			task.stats.incPendStatus(PendStatusTimeout)
			k.ready[task.Priority].InsertLast(task.schedNode)
		}

		node = next
	}
}
