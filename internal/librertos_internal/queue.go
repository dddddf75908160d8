// Queue: a variable-length FIFO ring buffer with lock-counted concurrent
// Read/Write, matching the algorithm in the original queue.c. The trick
// that makes a push and a pop safe to run concurrently without holding the
// critical section across the copy is a per-direction lock counter: each
// caller reserves its slot (and bumps the counter) inside the critical
// section, copies outside it, then re-enters to fold the counter back into
// the free/used total — but only the caller that observed the counter at
// zero does the folding, so a pile-up of concurrent readers (or writers)
// still only updates the shared total once.

package librertos_internal

// Queue is a fixed-capacity ring buffer of fixed-size items. The zero value
// is not usable; call Init before any other method.
type Queue struct {
	Event

	itemSize int
	capacity int

	free int
	used int

	wLock int
	rLock int

	head int
	tail int

	buf []byte
}

// Init (re)initializes q as an empty queue of the given capacity and item
// size, backed by buf. buf must be at least capacity*itemSize bytes; Init
// does not allocate it so callers can place the backing store wherever they
// like (including a static buffer, to keep the original's no-heap-after-init
// discipline).
func (q *Queue) Init(buf []byte, capacity, itemSize int) {
	Assert(capacity > 0, int64(capacity), "Queue.Init: capacity must be positive")
	Assert(itemSize > 0, int64(itemSize), "Queue.Init: itemSize must be positive")
	Assert(len(buf) >= capacity*itemSize, int64(len(buf)), "Queue.Init: buf too small")

	q.Event.Init()
	q.itemSize = itemSize
	q.capacity = capacity
	q.free = capacity
	q.used = 0
	q.wLock = 0
	q.rLock = 0
	q.head = 0
	q.tail = 0
	q.buf = buf
}

func (q *Queue) slot(index int) []byte {
	start := index * q.itemSize
	return q.buf[start : start+q.itemSize]
}

// Read pops the front item into dst (which must be at least ItemSize()
// bytes) without blocking. Reports whether an item was available.
func (q *Queue) Read(dst []byte) bool {
	CriticalEnter()

	if q.used == 0 {
		CriticalExit()
		return false
	}

	pos := q.head
	q.head++
	if q.head >= q.capacity {
		q.head = 0
	}

	lock := q.rLock
	q.rLock++
	q.used--

	CriticalExit()
	copy(dst, q.slot(pos))
	ConcurrentAccessHook()
	CriticalEnter()

	if lock == 0 {
		q.free += q.rLock
		q.rLock = 0
	}

	SchedulerLock()

	if q.waitingWriters.Len() != 0 {
		K.unblockTasks(q.waitingWriters)
	}

	CriticalExit()
	SchedulerUnlock()
	return true
}

// Write pushes src (exactly ItemSize() bytes) onto the back of the queue
// without blocking. Reports whether there was room.
func (q *Queue) Write(src []byte) bool {
	CriticalEnter()

	if q.free == 0 {
		CriticalExit()
		return false
	}

	pos := q.tail
	q.tail++
	if q.tail >= q.capacity {
		q.tail = 0
	}

	lock := q.wLock
	q.wLock++
	q.free--

	SchedulerLock()

	CriticalExit()
	copy(q.slot(pos), src)
	ConcurrentAccessHook()
	CriticalEnter()

	if lock == 0 {
		q.used += q.wLock
		q.wLock = 0
	}

	if q.waitingReaders.Len() != 0 {
		K.unblockTasks(q.waitingReaders)
	}

	CriticalExit()
	SchedulerUnlock()
	return true
}

// ReadPend pops the front item into dst, pending the calling task (for up
// to ticksToWait ticks; MaxDelay waits forever) if the queue is empty. Must
// only be called from a task.
func (q *Queue) ReadPend(dst []byte, ticksToWait Tick) bool {
	if q.Read(dst) {
		return true
	}
	q.PendRead(ticksToWait)
	return false
}

// WritePend pushes src onto the queue, pending the calling task (for up to
// ticksToWait ticks; MaxDelay waits forever) if the queue is full. Must only
// be called from a task.
func (q *Queue) WritePend(src []byte, ticksToWait Tick) bool {
	if q.Write(src) {
		return true
	}
	q.PendWrite(ticksToWait)
	return false
}

// PendRead blocks the calling task until the queue has an item to read, or
// ticksToWait ticks pass. A no-op if ticksToWait is 0.
func (q *Queue) PendRead(ticksToWait Tick) {
	if ticksToWait == 0 {
		return
	}

	SchedulerLock()
	CriticalEnter()
	if q.used == 0 {
		task := K.currentTask
		prePend(q.waitingReaders, task)
		CriticalExit()
		K.pend(task, ticksToWait)
	} else {
		CriticalExit()
	}
	SchedulerUnlock()
}

// PendWrite blocks the calling task until the queue has room to write, or
// ticksToWait ticks pass. A no-op if ticksToWait is 0.
func (q *Queue) PendWrite(ticksToWait Tick) {
	if ticksToWait == 0 {
		return
	}

	SchedulerLock()
	CriticalEnter()
	if q.free == 0 {
		task := K.currentTask
		prePend(q.waitingWriters, task)
		CriticalExit()
		K.pend(task, ticksToWait)
	} else {
		CriticalExit()
	}
	SchedulerUnlock()
}

// Used returns the number of items currently queued.
func (q *Queue) Used() int {
	CriticalEnter()
	defer CriticalExit()
	return q.used
}

// Free returns the number of additional items that can be written.
func (q *Queue) Free() int {
	CriticalEnter()
	defer CriticalExit()
	return q.free
}

// Capacity returns the queue's fixed total capacity, free+used+in-flight.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Length returns free+used+wLock+rLock, which is always equal to Capacity.
// This mirrors QueueLength's behavior in the original implementation
// (useful there only as a sum of otherwise-private fields); kept for
// parity, but new code should call Capacity directly.
func (q *Queue) Length() int {
	CriticalEnter()
	defer CriticalExit()
	return q.free + q.used + q.wLock + q.rLock
}

// ItemSize returns the fixed size, in bytes, of each item.
func (q *Queue) ItemSize() int {
	return q.itemSize
}

// Empty reports whether the queue currently holds no items.
func (q *Queue) Empty() bool {
	return q.Used() == 0
}

// Full reports whether the queue currently has no room to write.
func (q *Queue) Full() bool {
	return q.Free() == 0
}
