// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go - Range, scheduler and storage tunables
//
// Purpose:
//   - Compile-time defaults for chunk sizes, spin budgets and cache geometry.
//   - Shared by the range core, the parallel-for harness and the CLI.
//
// ⚠️ No runtime logic here; all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ──────────────────────────── Cache Geometry ───────────────────────────────

const (
	// CacheLineSize is the false-sharing granularity assumed by layout tests.
	// cpu.CacheLinePad is the source of truth for the padding itself.
	CacheLineSize = 64
)

// ───────────────────────────── Spinning ────────────────────────────────────

const (
	// SpinBudget is the number of failed attempts before a spinner yields its P
	// instead of issuing another relax hint.
	SpinBudget = 224

	// IdleBudget is the number of consecutive failed steal sweeps before an idle
	// worker yields.
	IdleBudget = 64
)

// ─────────────────────────── Extraction Sizes ──────────────────────────────

const (
	// DefaultChunk is the owner's pop_front request size.
	DefaultChunk = 20

	// DefaultStealMin is the smallest pop_back request a thief issues.
	DefaultStealMin = 10

	// DefaultItems is the iteration space size used by the CLI.
	DefaultItems = 1 << 20
)

// ───────────────────────────── Measurement ─────────────────────────────────

const (
	// MaxPollSamples caps the per-worker poll latency samples kept for a run.
	MaxPollSamples = 4096

	// CalibrationWindowMs is the wall time used to estimate ticks per microsecond.
	CalibrationWindowMs = 20
)

// ────────────────────────────── Storage ────────────────────────────────────

const (
	// DefaultDBPath is where the CLI persists run reports when --db is given
	// without a value.
	DefaultDBPath = "concrange_runs.db"
)
