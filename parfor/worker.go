// ════════════════════════════════════════════════════════════════════════════════════════════════
// Loop Worker
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Concurrent Range
// Component: Owner Loop and Steal Sweep
//
// Description:
//   Owner phase: poll, PopFront a chunk, run body, repeat until the chunk comes back empty.
//   Thief phase: sweep the other workers once, one PopBack per victim; the first success
//   becomes the worker's new range via Set. Idle sweeps relax, then yield.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package parfor

import (
	"runtime"

	"concrange/concrange"
	"concrange/constants"
	"concrange/control"
	"concrange/pollpoint"

	"golang.org/x/sys/cpu"
)

// worker holds one range and its private counters. Counters are written only by the
// worker goroutine and read after the run completes.
type worker struct {
	_     cpu.CacheLinePad
	id    int
	loop  *Loop
	rng   *concrange.Range
	point pollpoint.Point

	cursor     int // next victim offset
	items      int64
	chunks     uint64
	steals     uint64
	failed     uint64
	busy       uint64
	interrupts uint64
	latency    []uint64
	_          cpu.CacheLinePad
}

// run is the worker goroutine body.
func (w *worker) run() {
	l := w.loop
	if l.cfg.Pin {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		setAffinity(l.cfg.FirstCore + w.id)
	}

	idle := 0
	for {
		w.drain()
		if l.finished() {
			return
		}

		if w.steal() {
			idle = 0
			continue
		}

		// Nothing to take this sweep.
		if w.id == 0 {
			control.PollCooldown()
		}
		w.poll()
		if control.Hot() {
			concrange.Relax()
			continue
		}
		if idle++; idle >= constants.IdleBudget {
			idle = 0
			runtime.Gosched()
			continue
		}
		concrange.Relax()
	}
}

// drain runs the owner phase until the worker's range is exhausted or the loop ends.
func (w *worker) drain() {
	l := w.loop
	for {
		w.poll()
		if l.finished() {
			return
		}
		b, e := w.rng.PopFront(l.cfg.Chunk)
		if b == e {
			return
		}
		l.body(b, e)
		w.chunks++
		w.items += e - b
		l.done.Add(e - b)
	}
}

// poll services the worker's poll point.
func (w *worker) poll() {
	ran, lat := w.point.Poll()
	if !ran {
		return
	}
	w.interrupts++
	if len(w.latency) < constants.MaxPollSamples {
		w.latency = append(w.latency, lat)
	}
}

// steal sweeps the other workers once. Each victim gets at most one PopBack; a failure
// means "pick another", never "retry".
func (w *worker) steal() bool {
	l := w.loop
	n := len(l.workers)
	if n < 2 {
		return false
	}

	for i := 0; i < n-1; i++ {
		v := l.workers[(w.id+1+(w.cursor+i)%(n-1))%n]

		hint := v.rng.Size()
		if hint == 0 {
			continue
		}
		size := hint / 2
		if size < l.cfg.StealMin {
			size = l.cfg.StealMin
		}
		if size > hint {
			size = hint
		}

		th, ok := v.rng.ClaimThief()
		if !ok {
			w.busy++
			continue
		}
		b, e, ok := th.PopBack(size)
		th.Release()
		if !ok {
			w.failed++
			continue
		}

		w.steals++
		w.cursor = (w.cursor + i + 1) % (n - 1)
		control.SignalActivity()
		w.rng.Set(b, e)
		return true
	}
	return false
}
