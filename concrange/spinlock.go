// ════════════════════════════════════════════════════════════════════════════════════════════════
// Range Spinlock
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Concurrent Range
// Component: Conflict-Resolution Lock
//
// Description:
//   Binary flag acquired with a compare-and-swap loop and released with a sequentially
//   consistent store. Only the conflict paths take it: PopBack, Set and the rollback branch
//   of PopFront. The PopFront fast path never touches it.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package concrange

import (
	"runtime"
	"sync/atomic"

	"concrange/constants"
)

// spinLock is a test-and-set lock. The zero value is unlocked.
type spinLock struct {
	v atomic.Uint32
}

// lock spins until the flag moves 0→1. Every failed attempt issues a CPU relax hint;
// after constants.SpinBudget failures the goroutine yields so the holder can run when
// GOMAXPROCS is smaller than the number of spinners.
func (l *spinLock) lock() {
	miss := 0
	for !l.v.CompareAndSwap(0, 1) {
		if miss++; miss >= constants.SpinBudget {
			miss = 0
			runtime.Gosched()
			continue
		}
		cpuRelax()
	}
}

// tryLock makes a single acquisition attempt.
func (l *spinLock) tryLock() bool {
	return l.v.CompareAndSwap(0, 1)
}

// unlock clears the flag. atomic stores are sequentially consistent in Go, so every
// write made while holding the lock is visible before the flag reads as free.
//
//go:nosplit
func (l *spinLock) unlock() {
	l.v.Store(0)
}
