// range_fulllock.go: every operation serialized on the range lock.
//
// Used to validate callers against the simplest possible implementation before trusting
// the fast path. Build with -tags fulllock.

//go:build fulllock

package concrange

// FullLock reports whether this build serializes every operation on the range lock.
const FullLock = true

// Empty marks the range as permanently exhausted regardless of end. Owner only.
func (r *Range) Empty() {
	r.lock.lock()
	r.state.Store(uint32(StateEmpty))
	r.lock.unlock()
}

// PopFront claims up to maxSize indices from the front. It never fails: once the range
// is exhausted (or emptied) the returned subrange is empty. Owner only.
//
// Panics:
//   - maxSize < 0
func (r *Range) PopFront(maxSize int64) (beg, end int64) {
	if maxSize < 0 {
		panic("concrange: negative pop_front size")
	}

	r.lock.lock()
	b := r.beg.Load()
	if !r.active() {
		r.lock.unlock()
		return b, b
	}
	size := clip(remaining(b, r.end.Load()), maxSize)
	r.beg.Store(b + size)
	r.lock.unlock()

	return b, b + size
}

// popBack claims exactly size indices from the back, or fails leaving the bounds intact.
func (r *Range) popBack(size int64) (beg, end int64, ok bool) {
	r.lock.lock()
	defer r.lock.unlock()

	if !r.active() {
		return 0, 0, false
	}
	e, b := r.end.Load(), r.beg.Load()
	if size > remaining(b, e) {
		return 0, 0, false
	}
	r.end.Store(e - size)
	return e - size, e, true
}

// Set restarts the range with [beg, end). Owner only.
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

// Size returns end - beg under the lock. An emptied or uninitialized range reports zero.
func (r *Range) Size() int64 {
	r.lock.lock()
	defer r.lock.unlock()

	if !r.active() {
		return 0
	}
	return remaining(r.beg.Load(), r.end.Load())
}
