// StatsReporter: a periodic task that logs a one-line delta summary of the
// kernel and per-task counters, the structured-logging analogue of the
// teacher's SchedulerInternalMetrics/InternalMetrics double-buffered delta
// pattern — minus the Prometheus text and HTTP transport, which have no
// place in this kernel's domain.

package librertos_internal

import (
	"strconv"
	"strings"
)

var statsReporterLog = NewCompLogger("stats")

// StatsReporter periodically logs the delta of the kernel's and a fixed set
// of named tasks' counters since the last report, at the cadence set by
// StatsConfig.ReportIntervalTicks.
type StatsReporter struct {
	k        *Kernel
	cfg      *StatsConfig
	tasks    map[string]*Task
	prevTick Tick
	havePrev bool
	prevK    KernelStats
	prevT    map[string]TaskStats
}

// NewStatsReporter builds a reporter over k's counters and the named tasks.
// cfg defaults to DefaultStatsConfig() when nil. The returned reporter's
// Run method is a TaskFunc suitable for CreateTask.
func NewStatsReporter(k *Kernel, cfg *StatsConfig, tasks map[string]*Task) *StatsReporter {
	if cfg == nil {
		cfg = DefaultStatsConfig()
	}
	return &StatsReporter{
		k:     k,
		cfg:   cfg,
		tasks: tasks,
		prevT: make(map[string]TaskStats, len(tasks)),
	}
}

// Run is a TaskFunc: on every invocation it checks whether
// ReportIntervalTicks have elapsed since the last report and, if so, logs
// the deltas and flips its double-buffered snapshot. Intended to be the
// func of a dedicated low-priority task that the host resumes once per
// tick (or however often it can afford to poll); a ReportIntervalTicks of
// 0 disables reporting entirely, but the task still runs harmlessly.
func (r *StatsReporter) Run(_ any) {
	if r.cfg.ReportIntervalTicks == 0 {
		return
	}

	now := r.k.GetTick()
	if r.havePrev && uint32(now-r.prevTick) < r.cfg.ReportIntervalTicks {
		return
	}

	currK := r.k.Stats()
	var sb strings.Builder
	sb.WriteString("tick=")
	sb.WriteString(strconv.FormatUint(uint64(now), 10))

	deltaKernelField(&sb, "sched_calls", currK.Uint64Stats[KernelStatsSchedCallCount], r.prevK.Uint64Stats, KernelStatsSchedCallCount, r.havePrev)
	deltaKernelField(&sb, "dispatches", currK.Uint64Stats[KernelStatsDispatchCount], r.prevK.Uint64Stats, KernelStatsDispatchCount, r.havePrev)
	deltaKernelField(&sb, "ticks", currK.Uint64Stats[KernelStatsTickCount], r.prevK.Uint64Stats, KernelStatsTickCount, r.havePrev)

	for id, task := range r.tasks {
		curr := task.Stats()
		prev, havePrevTask := r.prevT[id]

		sb.WriteString(" ")
		sb.WriteString(id)
		sb.WriteString("{")
		deltaTaskField(&sb, "scheduled", curr.Uint64Stats[TaskStatsScheduledCount], prev.Uint64Stats, TaskStatsScheduledCount, havePrevTask)
		sb.WriteString(",")
		deltaTaskField(&sb, "success", curr.Uint64Stats[TaskStatsPendSuccessCount], prev.Uint64Stats, TaskStatsPendSuccessCount, havePrevTask)
		sb.WriteString(",")
		deltaTaskField(&sb, "timeout", curr.Uint64Stats[TaskStatsPendTimeoutCount], prev.Uint64Stats, TaskStatsPendTimeoutCount, havePrevTask)
		sb.WriteString(",")
		deltaTaskField(&sb, "forced", curr.Uint64Stats[TaskStatsPendForcedCount], prev.Uint64Stats, TaskStatsPendForcedCount, havePrevTask)
		sb.WriteString("}")

		r.prevT[id] = curr
	}

	statsReporterLog.Info(sb.String())

	r.prevK = currK
	r.prevTick = now
	r.havePrev = true
}

func deltaKernelField(sb *strings.Builder, name string, curr uint64, prev []uint64, index int, havePrev bool) {
	val := curr
	if havePrev {
		val -= prev[index]
	}
	sb.WriteString(" ")
	sb.WriteString(name)
	sb.WriteString("=")
	sb.WriteString(strconv.FormatUint(val, 10))
}

func deltaTaskField(sb *strings.Builder, name string, curr uint64, prev []uint64, index int, havePrev bool) {
	val := curr
	if havePrev {
		val -= prev[index]
	}
	sb.WriteString(name)
	sb.WriteString("=")
	sb.WriteString(strconv.FormatUint(val, 10))
}
