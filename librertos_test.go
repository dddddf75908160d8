package librertos_test

import (
	"testing"

	"github.com/djboni/librertos-go"
)

// TestProducerConsumerOverQueue exercises the public API end-to-end: a
// producer task writes into a Queue, a consumer task pends for it, and the
// scheduler is driven cooperatively from outside any task.
func TestProducerConsumerOverQueue(t *testing.T) {
	librertos.Init(&librertos.SchedulerConfig{
		NumPriorities: 2,
		Policy:        librertos.Cooperative,
	})

	var q librertos.Queue
	q.Init(make([]byte, 4), 4, 1)

	// The consumer is given the higher priority so the scheduler dispatches
	// it first, and it must pend on the still-empty queue before the
	// producer ever gets a turn.
	var consumed []byte
	librertos.CreateTask(1, func(_ any) {
		buf := make([]byte, 1)
		if q.ReadPend(buf, librertos.MaxDelay) {
			consumed = append(consumed, buf[0])
		}
	}, nil)

	librertos.CreateTask(0, func(_ any) {
		q.WritePend([]byte{7}, librertos.MaxDelay)
	}, nil)

	librertos.Sched() // consumer: queue empty, pends
	librertos.Sched() // producer: writes, wakes the consumer
	librertos.Sched() // consumer: re-dispatched, reads successfully

	if len(consumed) != 1 || consumed[0] != 7 {
		t.Fatalf("want consumed = [7], got %v", consumed)
	}
}

func TestInitAndStats(t *testing.T) {
	librertos.Init(librertos.DefaultKernelConfig().SchedulerConfig)

	if librertos.HighPriority() != int8(librertos.DefaultKernelConfig().SchedulerConfig.NumPriorities-1) {
		t.Fatalf("HighPriority: want NumPriorities-1, got %d", librertos.HighPriority())
	}

	librertos.CreateTask(0, func(_ any) {}, nil)
	librertos.Sched()

	stats := librertos.Stats()
	var total uint64
	for _, v := range stats.Uint64Stats {
		total += v
	}
	if total == 0 {
		t.Fatal("want at least one non-zero kernel counter after a Sched call")
	}
}

func TestSuspendResumeRoundTrip(t *testing.T) {
	librertos.Init(&librertos.SchedulerConfig{NumPriorities: 1, Policy: librertos.Cooperative})

	var ran bool
	task := librertos.CreateTask(0, func(_ any) { ran = true }, nil)

	librertos.TaskSuspend(task)
	librertos.Sched() // nothing ready: no-op

	if ran {
		t.Fatal("suspended task must not run")
	}

	librertos.TaskResume(task)
	librertos.Sched()

	if !ran {
		t.Fatal("resumed task should have run")
	}
}
