// ════════════════════════════════════════════════════════════════════════════════════════════════
// Work-Stealing Parallel For
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Concurrent Range
// Component: Scheduler Harness
//
// Description:
//   Runs body over [0, n) on a fixed set of workers. Each worker owns one concurrent range and
//   consumes it front to back in chunks. A worker whose range runs dry becomes the thief of
//   another worker: it claims that range's thief capability, issues one PopBack, and on success
//   restarts its own range with the stolen span via Set. A failed PopBack moves on to the next
//   victim instead of retrying.
//
// Poll points:
//   Workers poll their pollpoint.Point between chunks. Interrupt arms a worker's point; the
//   handler runs on the worker goroutine and the arming-to-entry latency is recorded in ticks.
//   Cancellation (context or control.Shutdown) is observed at the same points.
//
// Threading model:
//   - One goroutine per worker, optionally locked to an OS thread pinned to a core
//   - Each range has exactly one owner (its worker) and at most one thief at a time
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package parfor

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"concrange/concrange"
	"concrange/constants"
	"concrange/control"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Config shapes a loop run. Zero fields take the defaults from constants.
type Config struct {
	Workers   int   // worker goroutines; 0 = GOMAXPROCS
	Chunk     int64 // PopFront request size
	StealMin  int64 // smallest PopBack request
	Pin       bool  // lock workers to OS threads pinned to FirstCore+id
	FirstCore int
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Chunk <= 0 {
		c.Chunk = constants.DefaultChunk
	}
	if c.StealMin <= 0 {
		c.StealMin = constants.DefaultStealMin
	}
	return c
}

// Stats aggregates per-worker counters after a run.
type Stats struct {
	Items        int64    // indices passed to body
	Chunks       uint64   // successful PopFront calls
	Steals       uint64   // successful PopBack calls
	FailedSteals uint64   // PopBack calls that reported insufficient range
	Busy         uint64   // steal attempts skipped because another thief held the victim
	Interrupts   uint64   // poll-point handlers run
	PollLatency  []uint64 // ticks from Interrupt to handler entry
}

// ErrAborted is returned when a run stopped before covering every index.
var ErrAborted = errors.New("parfor: aborted before completion")

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// LOOP
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Loop is one parallel-for instance. It may be run once.
type Loop struct {
	cfg     Config
	n       int64
	body    func(beg, end int64)
	workers []*worker

	done    atomic.Int64 // indices completed
	abort   atomic.Bool
	started atomic.Bool
}

// NewLoop partitions [0, n) evenly across cfg.Workers ranges.
//
// Panics:
//   - n < 0
//   - body == nil
func NewLoop(n int64, cfg Config, body func(beg, end int64)) *Loop {
	if n < 0 {
		panic("parfor: negative iteration count")
	}
	if body == nil {
		panic("parfor: nil body")
	}
	cfg = cfg.withDefaults()

	l := &Loop{cfg: cfg, n: n, body: body, workers: make([]*worker, cfg.Workers)}
	w := int64(cfg.Workers)
	for i := range l.workers {
		beg := n * int64(i) / w
		end := n * int64(i+1) / w
		l.workers[i] = &worker{id: i, loop: l, rng: concrange.New(beg, end)}
	}
	return l
}

// Workers returns the number of workers.
func (l *Loop) Workers() int {
	return len(l.workers)
}

// Interrupt arms worker id's poll point with fn. It returns false if the worker already
// has a pending handler or id is out of range. Handlers armed after the loop finished
// never run.
func (l *Loop) Interrupt(id int, fn func()) bool {
	if id < 0 || id >= len(l.workers) {
		return false
	}
	return l.workers[id].point.Signal(fn)
}

// Run executes the loop and blocks until every index was processed or the run was
// aborted through ctx or control.Shutdown, in which case ErrAborted wraps the cause.
func (l *Loop) Run(ctx context.Context) (Stats, error) {
	if !l.started.CompareAndSwap(false, true) {
		panic("parfor: loop already run")
	}

	if ctx.Err() != nil {
		l.abort.Store(true)
	}
	stopAfter := context.AfterFunc(ctx, func() { l.abort.Store(true) })
	defer stopAfter()

	var wg sync.WaitGroup
	wg.Add(len(l.workers))
	for _, w := range l.workers {
		go func(w *worker) {
			defer wg.Done()
			w.run()
		}(w)
	}
	wg.Wait()

	st := l.collect()
	if st.Items != l.n {
		cause := ctx.Err()
		if cause == nil && control.Stopped() {
			cause = errors.New("control: shutdown")
		}
		if cause == nil {
			cause = errors.New("incomplete")
		}
		return st, errors.Join(ErrAborted, cause)
	}
	return st, nil
}

// Run is NewLoop followed by Loop.Run.
func Run(ctx context.Context, n int64, cfg Config, body func(beg, end int64)) (Stats, error) {
	return NewLoop(n, cfg, body).Run(ctx)
}

// finished reports whether workers should leave.
//
//go:nosplit
func (l *Loop) finished() bool {
	return l.done.Load() >= l.n || l.abort.Load() || control.Stopped()
}

func (l *Loop) collect() Stats {
	var st Stats
	for _, w := range l.workers {
		st.Items += w.items
		st.Chunks += w.chunks
		st.Steals += w.steals
		st.FailedSteals += w.failed
		st.Busy += w.busy
		st.Interrupts += w.interrupts
		st.PollLatency = append(st.PollLatency, w.latency...)
	}
	return st
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SEQUENTIAL REFERENCE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Sequential drives body over [0, n) from a single owner and returns the number of chunks.
// It is the reference the parallel result is checked against.
func Sequential(n, chunk int64, body func(beg, end int64)) uint64 {
	if chunk <= 0 {
		chunk = constants.DefaultChunk
	}
	r := concrange.New(0, n)
	var chunks uint64
	for {
		b, e := r.PopFront(chunk)
		if b == e {
			return chunks
		}
		body(b, e)
		chunks++
	}
}
