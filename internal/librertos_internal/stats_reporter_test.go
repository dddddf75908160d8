package librertos_internal

import (
	"strings"
	"testing"
)

// captureLog redirects the root logger's output to an in-memory slice of
// lines for the duration of a test, restoring it via t.Cleanup.
func captureLog(t *testing.T) *[]string {
	t.Helper()
	saved := RootLogger.GetOutput()
	lines := &[]string{}
	RootLogger.SetOutput(&lineCapture{lines: lines})
	t.Cleanup(func() { RootLogger.SetOutput(saved) })
	return lines
}

type lineCapture struct {
	lines *[]string
}

func (c *lineCapture) Write(p []byte) (int, error) {
	s := strings.TrimRight(string(p), "\n")
	if s != "" {
		*c.lines = append(*c.lines, s)
	}
	return len(p), nil
}

func TestStatsReporterLogsOnIntervalElapsed(t *testing.T) {
	testInitKernel(t, 1, Cooperative)
	lines := captureLog(t)

	task := K.CreateTask(0, func(_ any) {}, nil)
	K.Sched()

	r := NewStatsReporter(K, &StatsConfig{ReportIntervalTicks: 1}, map[string]*Task{"worker": task})
	r.Run(nil)

	if len(*lines) != 1 {
		t.Fatalf("want exactly one report line on the first Run, got %d: %v", len(*lines), *lines)
	}
	if !strings.Contains((*lines)[0], "worker{") {
		t.Fatalf("report line missing the task's delta block: %q", (*lines)[0])
	}
	if !strings.Contains((*lines)[0], "sched_calls=") {
		t.Fatalf("report line missing kernel deltas: %q", (*lines)[0])
	}
}

func TestStatsReporterSkipsBeforeIntervalElapses(t *testing.T) {
	testInitKernel(t, 1, Cooperative)
	lines := captureLog(t)

	r := NewStatsReporter(K, &StatsConfig{ReportIntervalTicks: 100}, nil)

	r.Run(nil)
	K.TickInterrupt()
	r.Run(nil)

	if len(*lines) != 1 {
		t.Fatalf("want a single report until the interval elapses, got %d: %v", len(*lines), *lines)
	}
}

func TestStatsReporterDisabledAtZeroInterval(t *testing.T) {
	testInitKernel(t, 1, Cooperative)
	lines := captureLog(t)

	r := NewStatsReporter(K, &StatsConfig{ReportIntervalTicks: 0}, nil)
	r.Run(nil)

	if len(*lines) != 0 {
		t.Fatalf("want no report at ReportIntervalTicks=0, got %v", *lines)
	}
}
