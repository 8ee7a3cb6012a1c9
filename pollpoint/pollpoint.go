// ════════════════════════════════════════════════════════════════════════════════════════════════
// Poll Points
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Concurrent Range
// Component: Worker Interruption
//
// Description:
//   A worker checks its Point at known places in its loop (between front extractions). Another
//   goroutine arms the point with a handler; the next Poll on the worker runs that handler on
//   the worker's own goroutine. The unarmed check is a single atomic load on a padded line.
//
// Latency:
//   Signal stamps the arming time with tick.Read; Poll reports the ticks between arming and
//   handler entry, which is the poll-point response latency the scheduler cares about.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package pollpoint

import (
	"sync/atomic"

	"concrange/tick"

	"golang.org/x/sys/cpu"
)

// armed is one pending interruption.
type armed struct {
	fn func()
	at tick.Counter
}

// Point is a single-consumer interruption slot. The zero value is unarmed and ready.
type Point struct {
	_       cpu.CacheLinePad
	pending atomic.Pointer[armed]
	_       cpu.CacheLinePad
}

// Signal arms p with fn. It returns false if p is already armed; the earlier handler
// stays in place.
func (p *Point) Signal(fn func()) bool {
	if fn == nil {
		panic("pollpoint: nil handler")
	}
	return p.pending.CompareAndSwap(nil, &armed{fn: fn, at: tick.Read()})
}

// Armed reports whether a handler is waiting.
//
//go:nosplit
func (p *Point) Armed() bool {
	return p.pending.Load() != nil
}

// Poll runs the pending handler, if any, and disarms p. It returns whether a handler ran
// and the ticks between Signal and handler entry. Must be called by the owning worker only.
func (p *Point) Poll() (ran bool, latency uint64) {
	a := p.pending.Load()
	if a == nil {
		return false, 0
	}
	if !p.pending.CompareAndSwap(a, nil) {
		// Cancelled between the load and the claim.
		return false, 0
	}
	latency = tick.Since(a.at)
	a.fn()
	return true, latency
}

// Cancel disarms p without running the handler. It returns whether a handler was removed.
func (p *Point) Cancel() bool {
	return p.pending.Swap(nil) != nil
}
