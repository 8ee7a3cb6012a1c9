// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: report.go - Loop run reports and coverage digests
//
// Purpose:
//   - Captures one parallel-for run (configuration, counters, timing) as JSON.
//   - Digests the per-index output array so a parallel run can be proven equal
//     to the sequential reference without keeping both arrays around.
//
// Notes:
//   - JSON via sonnet, the encoder/decoder the rest of the stack uses.
//   - Digest is Keccak-256 over little-endian words, hex encoded.
// ─────────────────────────────────────────────────────────────────────────────

package report

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"concrange/parfor"

	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/crypto/sha3"
)

// Run is the persisted record of one loop execution.
type Run struct {
	ID            int64     `json:"id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	N             int64     `json:"n"`
	Workers       int       `json:"workers"`
	Chunk         int64     `json:"chunk"`
	StealMin      int64     `json:"steal_min"`
	Pinned        bool      `json:"pinned"`
	FullLock      bool      `json:"full_lock"`
	ElapsedNs     int64     `json:"elapsed_ns"`
	TicksPerMicro float64   `json:"ticks_per_us"`

	Items        int64  `json:"items"`
	Chunks       uint64 `json:"chunks"`
	Steals       uint64 `json:"steals"`
	FailedSteals uint64 `json:"failed_steals"`
	Busy         uint64 `json:"busy"`
	Interrupts   uint64 `json:"interrupts"`

	PollLatency []uint64 `json:"poll_latency_ticks,omitempty"`

	Digest    string `json:"digest"`
	Reference string `json:"reference_digest,omitempty"`
}

// FromStats copies loop counters into r.
func (r *Run) FromStats(st parfor.Stats) {
	r.Items = st.Items
	r.Chunks = st.Chunks
	r.Steals = st.Steals
	r.FailedSteals = st.FailedSteals
	r.Busy = st.Busy
	r.Interrupts = st.Interrupts
	r.PollLatency = st.PollLatency
}

// Verified reports whether the parallel digest matches the sequential one.
func (r *Run) Verified() bool {
	return r.Digest != "" && r.Digest == r.Reference
}

// Elapsed returns the run duration.
func (r *Run) Elapsed() time.Duration {
	return time.Duration(r.ElapsedNs)
}

// Encode serializes r as JSON.
func Encode(r *Run) ([]byte, error) {
	b, err := sonnet.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("report: encode: %w", err)
	}
	return b, nil
}

// Decode parses a JSON run report.
func Decode(b []byte) (*Run, error) {
	var r Run
	if err := sonnet.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("report: decode: %w", err)
	}
	return &r, nil
}

// Digest hashes out in index order.
func Digest(out []uint64) string {
	h := sha3.NewLegacyKeccak256()
	var word [8]byte
	for _, v := range out {
		binary.LittleEndian.PutUint64(word[:], v)
		h.Write(word[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
