// range_fastpath.go: lock-free front extraction with a locked rollback path.
//
// Ordering: Go atomics are sequentially consistent, so the Add on one bound followed by
// the Load of the opposing bound is the store/fence/load sequence both sides rely on.
// Either the owner sees the thief's lowered end, or the thief sees the owner's raised
// beg, or both; the side that sees the conflict backs off.

//go:build !fulllock

package concrange

// FullLock reports whether this build serializes every operation on the range lock.
const FullLock = false

// Empty marks the range as permanently exhausted regardless of end. Owner only.
//
//go:nosplit
func (r *Range) Empty() {
	r.state.Store(uint32(StateEmpty))
}

// PopFront claims up to maxSize indices from the front. It never fails: once the range
// is exhausted (or emptied) the returned subrange is empty. Owner only.
//
// Algorithm:
//  1. Speculatively advance beg by maxSize (atomic add, full fence)
//  2. Re-read end; if beg <= end the claim is committed without the lock
//  3. Otherwise roll back, take the lock, clip to what remains and commit
//
// Panics:
//   - maxSize < 0
func (r *Range) PopFront(maxSize int64) (beg, end int64) {
	if maxSize < 0 {
		panic("concrange: negative pop_front size")
	}

	// Only the owner writes beg and state, so these loads are stable here.
	if !r.active() {
		b := r.beg.Load()
		return b, b
	}

	size := maxSize
	if advanceFits(r.beg.Load(), size) {
		b := r.beg.Add(size)
		if b <= r.end.Load() {
			return b - size, b
		}
		// The thief lowered end underneath the advance.
		r.beg.Add(-size)
	}

	r.lock.lock()
	b := r.beg.Load()
	size = clip(remaining(b, r.end.Load()), maxSize)
	b += size
	r.beg.Store(b)
	r.lock.unlock()

	return b - size, b
}

// popBack decrements end by exactly size under the lock and restores it if the new end
// crossed beg or the range is not active.
func (r *Range) popBack(size int64) (beg, end int64, ok bool) {
	r.lock.lock()

	if !r.active() || !retreatFits(r.end.Load(), size) {
		r.lock.unlock()
		return 0, 0, false
	}

	e := r.end.Add(-size)
	if e < r.beg.Load() || !r.active() {
		r.end.Add(size)
		r.lock.unlock()
		return 0, 0, false
	}

	r.lock.unlock()
	return e, e + size, true
}

// Set restarts the range with [beg, end). Owner only; never concurrent with PopFront but
// safe against a concurrent PopBack. The state passes through StateEmpty while the bounds
// are rewritten so no back extraction can mix old and new bounds.
//
// Panics:
//   - beg > end
func (r *Range) Set(beg, end int64) {
	if beg > end {
		panic("concrange: set with beg > end")
	}

	r.lock.lock()
	r.state.Store(uint32(StateEmpty))
	r.end.Store(end)
	r.beg.Store(beg)
	r.state.Store(uint32(StateActive))
	r.lock.unlock()
}

// Size returns end - beg without locking. The value is advisory: it may be stale while
// either side is extracting, and is clamped to zero during a speculative overshoot
// and to MaxInt64 for spans wider than an int64.
// An emptied or uninitialized range reports zero.
func (r *Range) Size() int64 {
	if !r.active() {
		return 0
	}
	return remaining(r.beg.Load(), r.end.Load())
}
