package librertos_internal

import "testing"

func TestSuspendDetachesFromReady(t *testing.T) {
	testInitKernel(t, 1, Cooperative)

	task := K.CreateTask(0, func(_ any) {}, nil)
	if !ready(task) {
		t.Fatal("freshly created task should be ready")
	}

	K.Suspend(task)

	if ready(task) {
		t.Fatal("suspended task should no longer be on its ready list")
	}
	if !K.suspended.OnList(task.schedNode) {
		t.Fatal("suspended task should be linked on the suspended list")
	}
}

func TestSuspendNilSuspendsCurrentTask(t *testing.T) {
	testInitKernel(t, 1, Cooperative)

	var suspendedSelf bool
	task := K.CreateTask(0, func(_ any) {
		K.Suspend(nil)
		suspendedSelf = true
	}, nil)

	K.Sched()

	if !suspendedSelf {
		t.Fatal("task function should have completed its own invocation")
	}
	if ready(task) {
		t.Fatal("task should be suspended, not ready, after its own Suspend(nil) call")
	}
	if !K.suspended.OnList(task.schedNode) {
		t.Fatal("task should be linked on the suspended list")
	}
}

func TestResumeIsIdempotent(t *testing.T) {
	testInitKernel(t, 1, Cooperative)

	task := K.CreateTask(0, func(_ any) {}, nil)
	K.Suspend(task)

	K.Resume(task)
	if !ready(task) {
		t.Fatal("Resume should move a suspended task back to ready")
	}

	// A second Resume on an already-ready task must be a no-op, not a
	// duplicate insertion.
	K.Resume(task)
	if K.ready[0].Len() != 1 {
		t.Fatalf("ready list length after redundant Resume: want 1, got %d", K.ready[0].Len())
	}
}

func TestResumePendedTaskForces(t *testing.T) {
	testInitKernel(t, 1, Cooperative)

	q := newTestQueue(t, 1, 1)
	task := K.CreateTask(0, func(_ any) {
		buf := make([]byte, 1)
		q.ReadPend(buf, MaxDelay)
	}, nil)

	K.Sched() // pends forever on the empty queue

	K.Resume(task)

	if !ready(task) {
		t.Fatal("Resume should move the pended task back to ready")
	}
	if task.Status() != PendStatusForced {
		t.Fatalf("status: want PendStatusForced, got %v", task.Status())
	}
}
