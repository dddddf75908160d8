// Task record and lifecycle: create, suspend, resume.

package librertos_internal

// TaskFunc is a task entry point. It runs to completion on the caller's own
// stack; "blocking" is the task function returning after registering itself
// on an event list via Pend.
type TaskFunc func(param any)

// PendStatus distinguishes how a previously pended task came back to ready,
// per the state machine in spec.md §4.6.
type PendStatus int8

const (
	// PendStatusNone: the task never pended, or its latest pend has not
	// resolved yet (pend resets the status each time a new pend begins).
	PendStatusNone PendStatus = iota
	// PendStatusSuccess: unblocked because the event it was waiting on fired.
	PendStatusSuccess
	// PendStatusTimeout: the tick reached the task's wake tick first.
	PendStatusTimeout
	// PendStatusForced: moved to ready by an explicit Resume call.
	PendStatusForced
)

// timeoutState records whether a pended task is waiting with a finite
// timeout and, if so, the tick it wakes at. It has two states, not waiting
// and waiting until wakeTick; there is no separate delayed-until state.
type timeoutState struct {
	waiting bool
	wakeTick Tick
}

// Task is the kernel's run-to-completion unit of execution. The caller owns
// the storage for the lifetime of the kernel; the kernel only ever borrows it
// mutably through the lists it links the task onto. A ready or suspended Task
// is on exactly one scheduler list (a ready list, or the suspended list). A
// pended Task is on one event list; its schedNode is then detached or, with a
// finite timeout, linked on the kernel's delayed list (or on the suspended
// list, if it was suspended while pended).
type Task struct {
	Func     TaskFunc
	Param    any
	Priority int8

	schedNode *Node[Task]
	eventNode *Node[Task]

	timeout timeoutState
	status  PendStatus

	stats TaskStats
}

// newTask allocates a detached task and wires its two intrusive nodes back to
// itself; CreateTask finishes initialization and links it onto a ready list.
func newTask() *Task {
	t := &Task{}
	t.schedNode = NewNode(t)
	t.eventNode = NewNode(t)
	t.stats = NewTaskStats()
	return t
}

// CreateTask registers a new task at the given priority and inserts it at
// the tail of that priority's ready list. priority must be within
// [LowPriority, k.HighPriority()].
func (k *Kernel) CreateTask(priority int8, fn TaskFunc, param any) *Task {
	Assert(
		priority >= k.lowPriority && priority <= k.highPriority,
		int64(priority),
		"CreateTask: invalid priority",
	)

	task := newTask()
	task.Func = fn
	task.Param = param
	task.Priority = priority

	CriticalEnter()
	k.ready[priority].InsertLast(task.schedNode)
	CriticalExit()

	return task
}

// Suspend detaches task (or the currently running task, if task is nil) from
// whatever scheduler list it is on and inserts it at the head of the
// suspended list. A task that is currently running completes its current
// invocation before the suspension takes effect at the next dispatch. A task
// that is currently pended keeps its event-list membership: it is still
// unblocked when the event fires, but stays suspended until a separate
// Resume. Suspending a pended task takes it off the delayed list, so it does
// not time out while suspended.
func (k *Kernel) Suspend(task *Task) {
	CriticalEnter()
	if task == nil {
		task = k.currentTask
	}
	if ListOf(task.schedNode) != nil {
		Remove(task.schedNode)
	}
	k.suspended.InsertFirst(task.schedNode)
	CriticalExit()
}

// Resume moves task onto the tail of its priority's ready list, unless it is
// already there. Idempotent. If task was pended on an event, it is forced
// off that event's wait list (and off the delayed-tasks bookkeeping, if it
// had a timeout in flight) with PendStatusForced, per the BLOCKED--(resume)-->
// READY transition in spec.md §4.6.
func (k *Kernel) Resume(task *Task) {
	CriticalEnter()
	if ListOf(task.eventNode) != nil {
		Remove(task.eventNode)
		task.status = PendStatusForced
		task.stats.incPendStatus(PendStatusForced)
	}
	readyList := k.ready[task.Priority]
	if !readyList.OnList(task.schedNode) {
		if ListOf(task.schedNode) != nil {
			Remove(task.schedNode)
		}
		readyList.InsertLast(task.schedNode)
	}
	CriticalExit()
}

// Status reports how the task's last pend resolved.
func (t *Task) Status() PendStatus {
	return t.status
}
