// ════════════════════════════════════════════════════════════════════════════════════════════════
// Concurrent Range
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Concurrent Range
// Component: Owner/Thief Index Range
//
// Description:
//   Hands out contiguous sub-intervals of [beg, end) to exactly two parties running in
//   parallel: a sequential owner consuming from the front and a single thief consuming from
//   the back. The owner advances beg without the lock and only falls back to it when its
//   speculative advance crosses a concurrently lowered end.
//
// Roles:
//   - Owner: Init, Empty, PopFront, Set, Size (one goroutine)
//   - Thief: PopBack through the capability returned by ClaimThief (one at a time)
//
// Memory layout:
//   - Cache line 0: padding
//   - Cache line 1: lock word and thief claim flag
//   - Cache line 2: beg and lifecycle state (owner written)
//   - Cache line 3: end (thief written)
//
// Strategy selection:
//   - default build: lock-free PopFront, locked PopBack (range_fastpath.go)
//   - -tags fulllock: every operation serialized on the lock (range_fulllock.go)
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package concrange

import (
	"errors"
	"math"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// STATE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// State is the lifecycle of a Range. It replaces the "beg == MaxInt64" marker so that no
// index value is reserved.
type State uint32

const (
	// StateUninitialized is the zero value: nothing has been published yet.
	StateUninitialized State = iota

	// StateActive means [beg, end) is live and beg <= end holds at quiescent points.
	StateActive

	// StateEmpty means the range was explicitly emptied, or a Set is rewriting bounds.
	StateEmpty
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateEmpty:
		return "empty"
	}
	return "invalid"
}

// ErrInsufficientRange is the only failure kind. It covers genuine exhaustion and a
// transient conflict with a concurrent PopFront; callers cannot tell them apart.
var ErrInsufficientRange = errors.New("concrange: insufficient range")

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// RANGE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Range is the concurrent [beg, end) interval. A Range must not be copied after first use.
// The zero value is an uninitialized range on which PopFront returns empty subranges and
// PopBack fails.
type Range struct {
	_ noCopy
	_ cpu.CacheLinePad

	lock  spinLock      // conflict resolution
	thief atomic.Uint32 // 1 while a Thief capability is outstanding
	_     cpu.CacheLinePad

	beg   atomic.Int64  // inclusive lower bound, owner written
	state atomic.Uint32 // State, owner written
	_     cpu.CacheLinePad

	end atomic.Int64 // exclusive upper bound, thief written
	_   cpu.CacheLinePad
}

// New allocates a Range holding [beg, end).
func New(beg, end int64) *Range {
	r := &Range{}
	r.Init(beg, end)
	return r
}

// Init publishes [beg, end) and activates the range. It must complete before the owner
// or any thief touches r; it is not safe against concurrent operations.
//
// Panics:
//   - beg > end
func (r *Range) Init(beg, end int64) {
	if beg > end {
		panic("concrange: init with beg > end")
	}
	r.lock.v.Store(0)
	r.end.Store(end)
	r.beg.Store(beg)
	r.state.Store(uint32(StateActive))
}

// IsEmpty reports whether the range was explicitly emptied.
func (r *Range) IsEmpty() bool {
	return State(r.state.Load()) == StateEmpty
}

// Bounds returns a snapshot of beg, end and the lifecycle state. Only meaningful at
// quiescent points; while an extraction is in flight beg may briefly exceed end.
func (r *Range) Bounds() (beg, end int64, st State) {
	return r.beg.Load(), r.end.Load(), State(r.state.Load())
}

// ClaimThief hands out the thief capability. At most one Thief exists per Range at any
// time; a second claim fails until the first is released.
func (r *Range) ClaimThief() (*Thief, bool) {
	if !r.thief.CompareAndSwap(0, 1) {
		return nil, false
	}
	return &Thief{r: r}, true
}

// active reports whether the state word reads StateActive.
//
//go:nosplit
func (r *Range) active() bool {
	return State(r.state.Load()) == StateActive
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// THIEF CAPABILITY
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Thief is the back-extraction capability of one Range. It is obtained from ClaimThief,
// must be used by a single goroutine and must not be copied.
type Thief struct {
	_ noCopy
	r *Range
}

// PopBack claims exactly size indices from the back of the range. It returns the claimed
// [beg, end) and true, or false when fewer than size indices remain or a concurrent
// PopFront overlapped the claim. A failed attempt leaves the bounds unchanged and should
// not be retried on the same range without an intervening state change.
//
// Panics:
//   - size < 0
//   - the Thief was released
func (t *Thief) PopBack(size int64) (beg, end int64, ok bool) {
	if t.r == nil {
		panic("concrange: use of released thief")
	}
	if size < 0 {
		panic("concrange: negative pop_back size")
	}
	return t.r.popBack(size)
}

// Steal is PopBack with the failure reported as ErrInsufficientRange.
func (t *Thief) Steal(size int64) (beg, end int64, err error) {
	beg, end, ok := t.PopBack(size)
	if !ok {
		return 0, 0, ErrInsufficientRange
	}
	return beg, end, nil
}

// Release returns the capability to the Range. Releasing twice is a no-op.
func (t *Thief) Release() {
	if t.r == nil {
		return
	}
	r := t.r
	t.r = nil
	r.thief.Store(0)
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// HELPERS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// advanceFits reports whether beg+size stays representable.
//
//go:nosplit
func advanceFits(beg, size int64) bool {
	return beg <= math.MaxInt64-size
}

// retreatFits reports whether end-size stays representable.
//
//go:nosplit
func retreatFits(end, size int64) bool {
	return end >= math.MinInt64+size
}

// remaining returns end - beg, zero when end <= beg and MaxInt64 when the span is
// wider than an int64 can hold.
//
//go:nosplit
func remaining(beg, end int64) int64 {
	if end <= beg {
		return 0
	}
	if n := end - beg; n > 0 {
		return n
	}
	return math.MaxInt64
}

// clip bounds the remaining length to [0, max].
//
//go:nosplit
func clip(n, max int64) int64 {
	if n > max {
		n = max
	}
	if n < 0 {
		n = 0
	}
	return n
}

// noCopy makes go vet's copylocks check flag copies of Range and Thief.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
