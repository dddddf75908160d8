// Stats bookkeeping: counters kept alongside the kernel and each task, in
// the double-buffer-friendly Uint64Stats[iota] shape so a reporting layer
// can snapshot and diff them cheaply without reflection.

package librertos_internal

const (
	// Indexes into Kernel.stats.Uint64Stats.

	// How many ticks TickInterrupt has processed.
	KernelStatsTickCount = iota
	// How many times Sched was called.
	KernelStatsSchedCallCount
	// How many of those calls actually dispatched a task (as opposed to
	// finding nothing ready, or deferring under the scheduler lock, or
	// being refused re-entry in cooperative mode).
	KernelStatsDispatchCount

	// Must be last.
	KernelStatsUint64Len
)

// KernelStats holds kernel-wide counters. The zero value is not ready for
// use; NewKernelStats allocates the backing slice.
type KernelStats struct {
	Uint64Stats []uint64
}

// NewKernelStats returns a zeroed KernelStats.
func NewKernelStats() KernelStats {
	return KernelStats{Uint64Stats: make([]uint64, KernelStatsUint64Len)}
}

func (s *KernelStats) incTick() {
	s.Uint64Stats[KernelStatsTickCount]++
}

func (s *KernelStats) incSchedCall() {
	s.Uint64Stats[KernelStatsSchedCallCount]++
}

// incScheduled records a dispatch of task, bumping both the kernel-wide
// dispatch count and the task's own scheduled count.
func (s *KernelStats) incScheduled(task *Task) {
	s.Uint64Stats[KernelStatsDispatchCount]++
	task.stats.Uint64Stats[TaskStatsScheduledCount]++
}

// Snapshot returns a copy of the current counters, safe to retain and diff
// against a later snapshot. Must be called with the critical section held,
// same as any other kernel-state read.
func (s *KernelStats) Snapshot() KernelStats {
	cp := NewKernelStats()
	copy(cp.Uint64Stats, s.Uint64Stats)
	return cp
}

const (
	// Indexes into Task.stats.Uint64Stats.

	// How many times this task was dispatched by Sched.
	TaskStatsScheduledCount = iota
	// How many pends on this task resolved with PendStatusSuccess.
	TaskStatsPendSuccessCount
	// How many pends on this task resolved with PendStatusTimeout.
	TaskStatsPendTimeoutCount
	// How many times this task was forced off a wait list by Resume.
	TaskStatsPendForcedCount

	// Must be last.
	TaskStatsUint64Len
)

// TaskStats holds per-task counters, embedded directly in Task rather than
// kept in a side table: unlike the teacher's string-keyed task registry,
// every Task here is already a distinct Go allocation the caller holds a
// pointer to, so there is no id to key a map on and no map/mutex pair to
// maintain alongside it.
type TaskStats struct {
	Uint64Stats []uint64
}

// NewTaskStats returns a zeroed TaskStats.
func NewTaskStats() TaskStats {
	return TaskStats{Uint64Stats: make([]uint64, TaskStatsUint64Len)}
}

func (s *TaskStats) incPendStatus(status PendStatus) {
	switch status {
	case PendStatusSuccess:
		s.Uint64Stats[TaskStatsPendSuccessCount]++
	case PendStatusTimeout:
		s.Uint64Stats[TaskStatsPendTimeoutCount]++
	case PendStatusForced:
		s.Uint64Stats[TaskStatsPendForcedCount]++
	}
}

// Snapshot returns a copy of the task's current counters.
func (s *TaskStats) Snapshot() TaskStats {
	cp := NewTaskStats()
	copy(cp.Uint64Stats, s.Uint64Stats)
	return cp
}

// Stats returns a snapshot of this task's counters.
func (t *Task) Stats() TaskStats {
	CriticalEnter()
	defer CriticalExit()
	return t.stats.Snapshot()
}
