package librertos_internal

import "testing"

// TestMutexLockUnlockContract is property 9: init -> lock = SUCCESS,
// lock -> lock = FAIL, lock -> unlock = SUCCESS, init -> unlock = FAIL,
// is_locked reflects state throughout.
func TestMutexLockUnlockContract(t *testing.T) {
	m := &Mutex{}
	m.Init()

	if m.IsLocked() {
		t.Fatal("fresh mutex: want unlocked")
	}

	if !m.Lock() {
		t.Fatal("first Lock: want SUCCESS")
	}
	if !m.IsLocked() {
		t.Fatal("after Lock: want IsLocked true")
	}

	if m.Lock() {
		t.Fatal("second Lock on an already-locked mutex: want FAIL")
	}

	if !m.Unlock() {
		t.Fatal("Unlock of a locked mutex: want SUCCESS")
	}
	if m.IsLocked() {
		t.Fatal("after Unlock: want IsLocked false")
	}

	m2 := &Mutex{}
	m2.Init()
	if m2.Unlock() {
		t.Fatal("Unlock of a never-locked mutex: want FAIL")
	}
}

func TestMutexOwnerBookkeeping(t *testing.T) {
	testInitKernel(t, 1, Cooperative)

	m := &Mutex{}
	m.Init()

	var owner *Task
	task := K.CreateTask(0, func(_ any) {
		m.Lock()
		owner = m.Owner()
	}, nil)
	K.Sched()

	if owner != task {
		t.Fatalf("Owner after Lock: want the locking task, got %v", owner)
	}

	m.Unlock()

	if m.Owner() != nil {
		t.Fatal("Owner after Unlock: want nil")
	}
}

func TestMutexPendUnblocksOnUnlock(t *testing.T) {
	testInitKernel(t, 2, Cooperative)

	m := &Mutex{}
	m.Init()
	m.Lock() // locked outside of any task, as an ISR-held resource might be

	var acquired bool
	K.CreateTask(1, func(_ any) {
		acquired = m.LockPend(MaxDelay)
	}, nil)

	K.Sched() // pends: mutex is locked

	if acquired {
		t.Fatal("LockPend on a locked mutex: want the first attempt to fail")
	}
	if m.waitingReaders.Len() != 1 {
		t.Fatalf("waitingReaders: want 1 pended, got %d", m.waitingReaders.Len())
	}

	m.Unlock()

	K.Sched() // re-dispatch: task retries Lock and succeeds

	if !acquired {
		t.Fatal("want the pending task to acquire the mutex once it is unlocked")
	}
}

func TestMutexPendZeroTicksIsTryOnly(t *testing.T) {
	testInitKernel(t, 1, Cooperative)

	m := &Mutex{}
	m.Init()
	m.Lock()

	task := K.CreateTask(0, func(_ any) {
		m.LockPend(0)
	}, nil)
	K.Sched()

	if m.waitingReaders.Len() != 0 {
		t.Fatal("ticksToWait=0 must never pend")
	}
	if !ready(task) {
		t.Fatal("task should remain ready after a try-only lock attempt")
	}
}
