// The public face of the kernel for users of this package. Everything here
// is a thin forward onto internal/librertos_internal, the same shape the
// teacher uses to keep its real logic unexported while giving callers a
// small, stable surface to link against.
package librertos

import (
	"github.com/sirupsen/logrus"

	internal "github.com/djboni/librertos-go/internal/librertos_internal"
)

// Priority bounds. LowPriority is fixed at 0; HighPriority is configured at
// Init time via SchedulerConfig.NumPriorities.
const LowPriority = internal.LowPriority

// MaxDelay is the "never time out" sentinel for every *Pend ticksToWait
// argument.
const MaxDelay = internal.MaxDelay

// Tick is the kernel's monotonic time unit. It wraps silently.
type Tick = internal.Tick

// SchedulerPolicy selects cooperative or preemptive dispatch.
type SchedulerPolicy = internal.SchedulerPolicy

const (
	Cooperative = internal.Cooperative
	Preemptive  = internal.Preemptive
)

// Task is the kernel's run-to-completion unit of execution.
type Task = internal.Task

// TaskFunc is a task entry point.
type TaskFunc = internal.TaskFunc

// PendStatus distinguishes how a previously pended task came back to ready.
type PendStatus = internal.PendStatus

const (
	PendStatusNone    = internal.PendStatusNone
	PendStatusSuccess = internal.PendStatusSuccess
	PendStatusTimeout = internal.PendStatusTimeout
	PendStatusForced  = internal.PendStatusForced
)

// Queue is a fixed-capacity ring buffer of fixed-size items.
type Queue = internal.Queue

// Mutex is a single-owner lock built on the event mechanism.
type Mutex = internal.Mutex

// KernelConfig, SchedulerConfig, LoggerConfig and StatsConfig are the
// YAML-decodable configuration types; see internal/librertos_internal/config.go.
type (
	KernelConfig    = internal.KernelConfig
	SchedulerConfig = internal.SchedulerConfig
	LoggerConfig    = internal.LoggerConfig
	StatsConfig     = internal.StatsConfig
)

// KernelStats and TaskStats are the stats-snapshot types returned by
// Stats() and Task.Stats().
type (
	KernelStats = internal.KernelStats
	TaskStats   = internal.TaskStats
)

// StatsReporter is a periodic task that logs a one-line delta summary of
// the kernel's and a fixed set of named tasks' counters. Its Run method is
// a TaskFunc suitable for CreateTask.
type StatsReporter = internal.StatsReporter

// NewStatsReporter builds a reporter over the kernel singleton's counters
// and the named tasks. cfg defaults to StatsConfig zero value's
// DefaultStatsConfig() when nil.
func NewStatsReporter(cfg *StatsConfig, tasks map[string]*Task) *StatsReporter {
	return internal.NewStatsReporter(K, cfg, tasks)
}

// DefaultKernelConfig returns the kernel's complete set of configuration
// defaults (cooperative scheduling, 4 priority levels, JSON logging to
// stderr at info level, stats reporting every 1000 ticks).
func DefaultKernelConfig() *KernelConfig { return internal.DefaultKernelConfig() }

// LoadConfig loads the kernel configuration (and, optionally, a host
// program's own sibling section) from a YAML file or buffer. See
// internal/librertos_internal/config.go for the section-dispatch contract.
func LoadConfig(cfgFile string, buf []byte, hostSectionName string, hostConfig any) (*KernelConfig, error) {
	return internal.LoadConfig(cfgFile, buf, hostSectionName, hostConfig)
}

// SetLogger applies logCfg (or the defaults, if nil) to the root logger.
func SetLogger(logCfg *LoggerConfig) error { return internal.SetLogger(logCfg) }

// NewCompLogger returns a sub-logger tagging every record with comp=compName.
func NewCompLogger(compName string) *logrus.Entry { return internal.NewCompLogger(compName) }

// GetRootLogger exposes the root logger; needed only by
// librertos_testutils.LogCollector. Its concrete type is intentionally
// obscured here.
func GetRootLogger() any { return internal.GetRootLogger() }

// GetLogLevelNames returns the accepted logger_config.level values.
func GetLogLevelNames() []string { return internal.GetLogLevelNames() }

// AddCallerSrcPathPrefixToLogger records upNDirs above the caller's own
// source file as a prefix to strip from logged file paths. Call once from
// a host program's main/init, passing 0 if main.go sits at the module root.
func AddCallerSrcPathPrefixToLogger(upNDirs int) error {
	// skip = 1 to base the caller's path on the caller of this function,
	// not on this forwarding wrapper.
	return internal.AddCallerSrcPathPrefixToLogger(upNDirs, 1)
}

// FormatFlagUsage wraps a flag usage string at the package's default width,
// discarding the source string's own line breaks and indentation.
func FormatFlagUsage(usage string) string { return internal.FormatFlagUsage(usage) }

// FormatFlagUsageWidth is FormatFlagUsage with an explicit wrap width.
func FormatFlagUsageWidth(usage string, width int) string {
	return internal.FormatFlagUsageWidth(usage, width)
}

// AssertionError is what AssertHook panics with in a hosted test build.
type AssertionError = internal.AssertionError

// SetAssertHook lets a hosted test build swap the kernel's
// precondition-failure action: production logs and calls os.Exit(1); a test
// can install a hook that panics with *AssertionError instead, so that it
// can recover() it.
func SetAssertHook(hook func(val int64, msg string)) { internal.AssertHook = hook }

// SetConcurrentAccessHook installs a function invoked once inside each of
// Queue's two lock-protected copy windows. Production leaves it a no-op;
// concurrency tests install a hook that deliberately interleaves another
// goroutine's access to prove the lock-counter protocol holds.
func SetConcurrentAccessHook(hook func()) { internal.ConcurrentAccessHook = hook }

// SetCriticalSectionEnabled toggles the interrupt-masking mutex on or off,
// per the port contract's "no-op critical section when disabled (for
// testing)".
func SetCriticalSectionEnabled(enabled bool) { internal.SetCriticalSectionEnabled(enabled) }

// K is the kernel singleton. Init must be called before starting the tick
// source or creating any task.
var K = internal.K

// Init (re)initializes the kernel singleton from cfg (or the scheduler
// defaults, if nil).
func Init(cfg *SchedulerConfig) { K.Init(cfg) }

// Sched picks and runs at most one ready task, then returns.
func Sched() { K.Sched() }

// TickInterrupt processes one tick: advances the tick counter and wakes any
// task whose delay has expired. Must be called periodically by the host's
// tick source (see cmd/librertosd for a time.Ticker-driven example).
func TickInterrupt() { K.TickInterrupt() }

// GetTick returns the current tick count. It may wrap.
func GetTick() Tick { return K.GetTick() }

// GetCurrentTask returns the task currently executing, or nil if none.
func GetCurrentTask() *Task { return K.GetCurrentTask() }

// HighPriority returns the configured upper bound for task priorities.
func HighPriority() int8 { return K.HighPriority() }

// Stats returns a snapshot of the kernel-wide counters.
func Stats() KernelStats { return K.Stats() }

// CreateTask registers a new task at the given priority and inserts it at
// the tail of that priority's ready list.
func CreateTask(priority int8, fn TaskFunc, param any) *Task {
	return K.CreateTask(priority, fn, param)
}

// TaskSuspend detaches task (or the currently running task, if task is nil)
// and inserts it at the head of the suspended list.
func TaskSuspend(task *Task) { K.Suspend(task) }

// TaskResume moves task onto the tail of its priority's ready list, unless
// it is already there.
func TaskResume(task *Task) { K.Resume(task) }
