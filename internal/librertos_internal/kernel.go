// Kernel state (the scheduler's singleton) and the dispatcher itself.

package librertos_internal

// Tick is the kernel's monotonic time unit; one tick is one period of the
// external periodic tick source. It wraps silently; all timeout comparisons
// must use wrap-safe (signed-difference) arithmetic, never a raw "<".
type Tick uint32

// MaxDelay is the "never time out" sentinel for ticksToWait arguments.
const MaxDelay Tick = ^Tick(0)

// tickBefore reports whether a comes strictly before b on the wrapping tick
// timeline, using signed-difference comparison so a single wraparound of the
// counter does not corrupt the ordering.
func tickBefore(a, b Tick) bool {
	return int32(a-b) < 0
}

// SchedulerPolicy selects cooperative or preemptive dispatch.
type SchedulerPolicy int8

const (
	// Cooperative: Sched never interrupts an already-running task; it must
	// return (block, suspend, or complete) before another task is picked.
	Cooperative SchedulerPolicy = iota
	// Preemptive: TickInterrupt calls Sched itself after each tick, which may
	// dispatch a higher-priority task on top of the tick handler's frame.
	Preemptive
)

// Kernel is the single per-process kernel state: the tick counter, the
// current-task pointer, the per-priority ready lists, the suspended list, and
// the list of tasks blocked with a pending timeout. There is exactly one
// instance, exposed as the package-level singleton K; it is initialized once
// before the tick source is started and never destroyed.
type Kernel struct {
	tick        Tick
	currentTask *Task
	ready       []*List[Task]
	suspended   *List[Task]
	delayed     *List[Task]
	lowPriority  int8
	highPriority int8
	policy       SchedulerPolicy

	stats KernelStats
}

// K is the kernel singleton. Callers must call K.Init before starting the
// tick source or creating tasks.
var K = &Kernel{}

var kernelLog = NewCompLogger("kernel")

// Init (re)initializes kernel state. Must be called before the tick
// interrupt is enabled, and before any task is created.
func (k *Kernel) Init(cfg *SchedulerConfig) {
	if cfg == nil {
		cfg = DefaultSchedulerConfig()
	}

	CriticalEnter()
	defer CriticalExit()

	k.tick = 0
	k.currentTask = nil
	k.lowPriority = LowPriority
	k.highPriority = int8(cfg.NumPriorities - 1)
	k.policy = cfg.Policy

	k.ready = make([]*List[Task], cfg.NumPriorities)
	for i := range k.ready {
		k.ready[i] = NewList[Task]()
	}
	k.suspended = NewList[Task]()
	k.delayed = NewList[Task]()
	k.stats = NewKernelStats()

	kernelLog.Infof("initialized: num_priorities=%d policy=%s", cfg.NumPriorities, cfg.Policy)
}

// LowPriority is the fixed lower bound for task priorities, 0.
const LowPriority int8 = 0

// HighPriority returns the configured upper bound for task priorities.
func (k *Kernel) HighPriority() int8 {
	return k.highPriority
}

// Sched picks and runs at most one task, then returns. Entered with
// interrupts disabled internally; see spec.md §4.3 for the algorithm.
func (k *Kernel) Sched() {
	CriticalEnter()
	k.stats.incSchedCall()

	if schedulerLocked() {
		// Deferred: a wakeup is in flight under the scheduler lock; the
		// dispatcher does not run until the outermost unlock.
		CriticalExit()
		return
	}

	current := k.currentTask
	currentPriority := int8(-1)
	if current != nil {
		currentPriority = current.Priority
	}

	if k.policy == Cooperative && currentPriority >= 0 {
		// A task is already on the call stack; cooperative mode forbids
		// re-entry.
		CriticalExit()
		return
	}

	for prio := k.highPriority; prio > currentPriority; prio-- {
		readyList := k.ready[prio]
		if readyList.Empty() {
			continue
		}

		node := readyList.First()
		task := node.Owner()

		Remove(node)
		readyList.InsertLast(node)

		k.currentTask = task
		k.stats.incScheduled(task)

		CriticalExit()
		task.Func(task.Param)
		CriticalEnter()

		k.currentTask = current

		// Return here: a higher-priority task that became ready while this
		// one ran is picked up on the next Sched call.
		CriticalExit()
		return
	}

	CriticalExit()
}

// TickInterrupt processes one tick: increments the tick counter and wakes
// any task whose delay has expired. Must be called periodically by the host's
// tick source.
func (k *Kernel) TickInterrupt() {
	CriticalEnter()
	k.tick++
	now := k.tick
	k.stats.incTick()
	CriticalExit()

	k.wakeExpiredTasks(now)

	if k.policy == Preemptive {
		k.Sched()
	}
}

// GetTick returns the current tick count. It may wrap.
func (k *Kernel) GetTick() Tick {
	CriticalEnter()
	tick := k.tick
	CriticalExit()
	return tick
}

// Stats returns a snapshot of the kernel-wide counters.
func (k *Kernel) Stats() KernelStats {
	CriticalEnter()
	defer CriticalExit()
	return k.stats.Snapshot()
}

// GetCurrentTask returns the task currently executing, or nil if none.
func (k *Kernel) GetCurrentTask() *Task {
	CriticalEnter()
	task := k.currentTask
	CriticalExit()
	return task
}
