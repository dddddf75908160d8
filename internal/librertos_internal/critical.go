// Critical section: the interrupt-masking primitive every other part of the
// kernel relies on for mutual exclusion.
//
// On real hardware this disables interrupts on enter and restores the prior
// mask on exit; on a hosted build there is no interrupt controller, so the
// same contract is provided with a process-wide mutex. See DESIGN.md's Open
// Question resolution for why a plain (non-reentrant) mutex is sufficient:
// every call site ported from the original implementation enters and exits
// the critical section in a single, unnested span.

package librertos_internal

import "sync"

var criticalMu sync.Mutex

// criticalSectionEnabled lets hosted tests run with the critical section
// compiled out, per the port contract ("a no-op critical section when
// disabled (for testing)"). See testhooks.go.
var criticalSectionEnabled = true

// CriticalEnter masks interrupts (acquires the kernel-wide critical section).
// Must be paired with CriticalExit; hold it for strictly bounded work only —
// no blocking, no data copies once a lock counter has already been bumped.
func CriticalEnter() {
	if criticalSectionEnabled {
		criticalMu.Lock()
	}
}

// CriticalExit releases the critical section entered by CriticalEnter.
func CriticalExit() {
	if criticalSectionEnabled {
		criticalMu.Unlock()
	}
}
