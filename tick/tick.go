// ════════════════════════════════════════════════════════════════════════════════════════════════
// Hardware Tick Counter
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Concurrent Range
// Component: Out-of-band Latency Measurement
//
// Description:
//   Reads the processor time-stamp counter around poll points and steal attempts. Values are
//   only comparable on the same machine and are never fed back into range logic.
//
// Targets:
//   - amd64: RDTSC (tick_amd64.s)
//   - everything else, or -tags noasm: monotonic nanoseconds since process start
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package tick

import "time"

// Counter is a raw tick reading.
type Counter uint64

// Since returns the ticks elapsed from c to now. A counter that appears to run backwards
// (migration between unsynchronized sockets) reports zero.
//
//go:nosplit
func Since(c Counter) uint64 {
	now := Read()
	if now < c {
		return 0
	}
	return uint64(now - c)
}

// Calibrate estimates ticks per microsecond by sampling Read across a wall-clock window.
func Calibrate(window time.Duration) float64 {
	if window <= 0 {
		window = time.Millisecond
	}
	start := time.Now()
	t0 := Read()
	for time.Since(start) < window {
	}
	t1 := Read()
	us := float64(time.Since(start).Nanoseconds()) / 1e3
	if us <= 0 || t1 <= t0 {
		return 0
	}
	return float64(t1-t0) / us
}
