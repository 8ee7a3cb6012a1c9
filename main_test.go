package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"concrange/concrange"
	"concrange/constants"
	"concrange/control"
	"concrange/report"
)

func TestParseFlagsDefaults(t *testing.T) {
	o, err := parseFlags(io.Discard, nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.n != constants.DefaultItems || o.chunk != constants.DefaultChunk || o.stealMin != constants.DefaultStealMin {
		t.Fatalf("defaults not applied: %+v", o)
	}
	if o.dbPath != "" {
		t.Fatalf("dbPath = %q, want empty", o.dbPath)
	}
}

func TestParseFlagsDBWithoutValue(t *testing.T) {
	o, err := parseFlags(io.Discard, []string{"--db"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.dbPath != constants.DefaultDBPath {
		t.Fatalf("dbPath = %q, want %q", o.dbPath, constants.DefaultDBPath)
	}
}

func TestParseFlagsRejects(t *testing.T) {
	for _, args := range [][]string{
		{"--n", "-1"},
		{"--chunk", "0"},
		{"--steal-min", "0"},
		{"--history"},
		{"extra"},
		{"--bogus"},
	} {
		if _, err := parseFlags(io.Discard, args); err == nil {
			t.Errorf("parseFlags(%v) accepted invalid input", args)
		}
	}
}

func TestRunWritesVerifiedReport(t *testing.T) {
	control.Reset()
	o, err := parseFlags(io.Discard, []string{"-n", "50000", "-w", "3", "--chunk", "32", "--interrupt-every", "100us"})
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run(context.Background(), o, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	rep, err := report.Decode(bytes.TrimSpace(out.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !rep.Verified() || rep.Items != 50000 || rep.Workers != 3 || rep.FullLock != concrange.FullLock {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestRunPersistsAndSummarizes(t *testing.T) {
	control.Reset()
	db := filepath.Join(t.TempDir(), "runs.db")
	o, err := parseFlags(io.Discard, []string{"-n", "1000", "-q", "--db=" + db})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		if err := run(context.Background(), o, &out); err != nil {
			t.Fatalf("run: %v", err)
		}
		if out.Len() != 0 {
			t.Fatalf("quiet run wrote %q", out.String())
		}
	}

	h, _ := parseFlags(io.Discard, []string{"--history", "--db=" + db})
	var out bytes.Buffer
	if err := run(context.Background(), h, &out); err != nil {
		t.Fatalf("history: %v", err)
	}
	want := "fast-path runs=2"
	if concrange.FullLock {
		want = "full-lock runs=2"
	}
	if !strings.Contains(out.String(), want) {
		t.Fatalf("history output %q lacks %q", out.String(), want)
	}
}

func TestRunCancelled(t *testing.T) {
	control.Reset()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o, _ := parseFlags(io.Discard, []string{"-n", "1000000", "-q"})
	if err := run(ctx, o, io.Discard); err == nil {
		t.Fatal("run on a cancelled context succeeded")
	}
}

func TestStartInterruptsStops(t *testing.T) {
	startInterrupts(nil, 0)()
}
