// control.go: Global stop and activity flags for pinned range workers
// ============================================================================
// WORKER CONTROL
// ============================================================================
//
// Process-wide signaling shared by every parallel loop:
//   • stop: set once by Shutdown (signal handler, CLI abort); workers poll it
//     at their poll points and exit
//   • hot: set by SignalActivity whenever a steal succeeds; idle thieves keep
//     spinning while it is set and back off once PollCooldown clears it
//
// Threading model:
//   • Any goroutine may call Shutdown and SignalActivity
//   • Workers read the flags through Stopped and Hot
//   • One designated worker calls PollCooldown while idle

package control

import (
	"sync/atomic"
	"time"
)

// ============================================================================
// GLOBAL STATE
// ============================================================================

var (
	hot  atomic.Uint32 // 1 = steals succeeded recently
	stop atomic.Uint32 // 1 = abort all loops

	lastHot    atomic.Int64             // UnixNano of the last successful steal
	cooldownNs = int64(2 * time.Millisecond)
)

// ============================================================================
// ACTIVITY
// ============================================================================

// SignalActivity marks the system hot and records the time.
//
//go:nosplit
func SignalActivity() {
	lastHot.Store(time.Now().UnixNano())
	hot.Store(1)
}

// PollCooldown clears the hot flag once no activity was signalled for the
// cooldown period.
func PollCooldown() {
	if hot.Load() == 1 && time.Now().UnixNano()-lastHot.Load() > cooldownNs {
		hot.Store(0)
	}
}

// Hot reports whether steals succeeded recently.
//
//go:nosplit
func Hot() bool {
	return hot.Load() == 1
}

// ============================================================================
// SHUTDOWN
// ============================================================================

// Shutdown asks every running loop to stop at its next poll point.
func Shutdown() {
	stop.Store(1)
}

// Stopped reports whether Shutdown was called.
//
//go:nosplit
func Stopped() bool {
	return stop.Load() != 0
}

// Reset clears both flags. Only for use between runs, never while workers poll.
func Reset() {
	stop.Store(0)
	hot.Store(0)
	lastHot.Store(0)
}
