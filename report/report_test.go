package report

import (
	"strings"
	"testing"
	"time"

	"concrange/parfor"

	"github.com/google/go-cmp/cmp"
)

func sampleRun() *Run {
	return &Run{
		CreatedAt:     time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
		N:             1000,
		Workers:       4,
		Chunk:         20,
		StealMin:      10,
		ElapsedNs:     int64(3 * time.Millisecond),
		TicksPerMicro: 2400.5,
		Items:         1000,
		Chunks:        48,
		Steals:        3,
		PollLatency:   []uint64{120, 340},
		Digest:        "ab",
		Reference:     "ab",
	}
}

func TestEncodeDecode(t *testing.T) {
	want := sampleRun()
	b, err := Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(b), `"poll_latency_ticks":[120,340]`) {
		t.Fatalf("unexpected JSON: %s", b)
	}
	got, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("{not json")); err == nil {
		t.Fatal("Decode accepted malformed input")
	}
}

func TestDigestOrderSensitive(t *testing.T) {
	a := Digest([]uint64{1, 2, 3})
	b := Digest([]uint64{3, 2, 1})
	if a == b {
		t.Fatal("digest ignores order")
	}
	if a != Digest([]uint64{1, 2, 3}) {
		t.Fatal("digest not deterministic")
	}
	if len(a) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(a))
	}
	// Keccak-256 of the empty input.
	if got := Digest(nil); got != "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470" {
		t.Fatalf("Digest(nil) = %s", got)
	}
}

func TestFromStatsAndVerified(t *testing.T) {
	var r Run
	r.FromStats(parfor.Stats{Items: 7, Chunks: 2, Steals: 1, FailedSteals: 4, Busy: 5, Interrupts: 1, PollLatency: []uint64{9}})
	want := Run{Items: 7, Chunks: 2, Steals: 1, FailedSteals: 4, Busy: 5, Interrupts: 1, PollLatency: []uint64{9}}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Fatalf("FromStats mismatch (-want +got):\n%s", diff)
	}
	if r.Verified() {
		t.Fatal("empty digests reported verified")
	}
	r.Digest, r.Reference = "x", "x"
	if !r.Verified() {
		t.Fatal("matching digests not verified")
	}
	r.ElapsedNs = int64(time.Second)
	if r.Elapsed() != time.Second {
		t.Fatalf("Elapsed = %v", r.Elapsed())
	}
}
