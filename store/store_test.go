package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"concrange/report"

	"github.com/google/go-cmp/cmp"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newRun(n int64, fullLock bool, latency []uint64) *report.Run {
	return &report.Run{
		CreatedAt:   time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
		N:           n,
		Workers:     2,
		Chunk:       20,
		StealMin:    10,
		FullLock:    fullLock,
		ElapsedNs:   n * 10,
		Items:       n,
		Steals:      4,
		PollLatency: latency,
		Digest:      "d",
		Reference:   "d",
	}
}

func TestSaveAndListRuns(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	first := newRun(100, false, []uint64{5, 6, 7})
	second := newRun(200, true, nil)
	for _, r := range []*report.Run{first, second} {
		if _, err := s.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Fatalf("ids not assigned in order: %d, %d", first.ID, second.ID)
	}

	got, err := s.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if diff := cmp.Diff([]*report.Run{first, second}, got); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}

	samples, err := s.Samples(ctx, first.ID)
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if diff := cmp.Diff([]uint64{5, 6, 7}, samples); diff != "" {
		t.Fatalf("samples mismatch (-want +got):\n%s", diff)
	}
	if none, _ := s.Samples(ctx, second.ID); len(none) != 0 {
		t.Fatalf("run without samples returned %v", none)
	}
}

func TestSaveRunStampsCreatedAt(t *testing.T) {
	s := openTemp(t)
	r := newRun(1, false, nil)
	r.CreatedAt = time.Time{}
	if _, err := s.SaveRun(context.Background(), r); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if r.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not stamped")
	}
}

func TestSummarize(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	unverified := newRun(300, false, nil)
	unverified.Reference = "other"
	for _, r := range []*report.Run{newRun(100, false, nil), unverified, newRun(50, true, nil)} {
		if _, err := s.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	fast, err := s.Summarize(ctx, false)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if want := (Summary{Runs: 2, MeanNs: 2000, Unverified: 1}); fast != want {
		t.Fatalf("fast summary = %+v, want %+v", fast, want)
	}

	locked, _ := s.Summarize(ctx, true)
	if locked.Runs != 1 || locked.Unverified != 0 {
		t.Fatalf("full-lock summary = %+v", locked)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := openTemp(t)
	sum, err := s.Summarize(context.Background(), false)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum != (Summary{}) {
		t.Fatalf("empty summary = %+v", sum)
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveRun(context.Background(), newRun(10, false, nil)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runs, err := s.Runs(context.Background())
	if err != nil || len(runs) != 1 {
		t.Fatalf("Runs after reopen = %d, %v", len(runs), err)
	}
}
