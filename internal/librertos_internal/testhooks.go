// Hosted test hooks: deterministic concurrent-access injection and the
// critical-section test-mode switch. Production builds never touch either.

package librertos_internal

// ConcurrentAccessHook is called once inside each of the queue's two
// lock-protected copy windows (the part of Read/Write that runs outside the
// critical section, in between bumping the r_lock/w_lock counter and
// folding it back in). Production leaves this a no-op; tests install a hook
// that mutates the queue from another goroutine to deterministically
// reproduce the race the lock counters are there to survive, the same role
// LIBRERTOS_TEST_CONCURRENT_ACCESS plays in the original test suite.
var ConcurrentAccessHook func() = func() {}

// SetCriticalSectionEnabled toggles the interrupt-masking mutex on or off.
// Tests that want to exercise the lock-counter protocol under real
// goroutine concurrency leave it enabled; tests asserting pure
// single-goroutine sequencing can disable it to simplify reasoning.
// Restoring it to true before returning control to production code is the
// caller's responsibility.
func SetCriticalSectionEnabled(enabled bool) {
	criticalSectionEnabled = enabled
}
