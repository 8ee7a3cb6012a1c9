// ════════════════════════════════════════════════════════════════════════════════════════════════
// Concurrent Range - Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Concurrent Range
// Component: Loop Runner CLI
//
// Description:
//   Drives a work-stealing parallel-for over [0, n) on concurrent ranges, proves the result
//   equal to a sequential single-owner run, and reports counters and poll-point latency.
//
// Phases:
//   - Phase 0: flags, tick calibration
//   - Phase 1: parallel run with optional periodic poll-point interrupts
//   - Phase 2: sequential reference run and digest comparison
//   - Phase 3: JSON report to stdout, optional SQLite persistence
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concrange/concrange"
	"concrange/constants"
	"concrange/control"
	"concrange/debug"
	"concrange/parfor"
	"concrange/report"
	"concrange/store"
	"concrange/tick"
	"concrange/utils"

	flag "github.com/spf13/pflag"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// OPTIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// options holds parsed command-line settings.
type options struct {
	n          int64
	workers    int
	chunk      int64
	stealMin   int64
	pin        bool
	firstCore  int
	dbPath     string
	quiet      bool
	interrupt  time.Duration
	history    bool
	skipVerify bool
}

func parseFlags(errOut io.Writer, args []string) (options, error) {
	fs := flag.NewFlagSet("concrange", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var o options
	fs.Int64VarP(&o.n, "n", "n", constants.DefaultItems, "iteration space size")
	fs.IntVarP(&o.workers, "workers", "w", 0, "worker goroutines (0 = GOMAXPROCS)")
	fs.Int64Var(&o.chunk, "chunk", constants.DefaultChunk, "owner pop_front size")
	fs.Int64Var(&o.stealMin, "steal-min", constants.DefaultStealMin, "smallest pop_back size")
	fs.BoolVar(&o.pin, "pin", false, "pin workers to cores")
	fs.IntVar(&o.firstCore, "first-core", 0, "core of worker 0 when pinning")
	fs.StringVar(&o.dbPath, "db", "", "persist the report to this SQLite database (--db=PATH)")
	fs.Lookup("db").NoOptDefVal = constants.DefaultDBPath
	fs.BoolVarP(&o.quiet, "quiet", "q", false, "do not print the JSON report")
	fs.DurationVar(&o.interrupt, "interrupt-every", 0, "arm a worker poll point at this period (0 = never)")
	fs.BoolVar(&o.history, "history", false, "print stored fast-path/full-lock summaries and exit (needs --db)")
	fs.BoolVar(&o.skipVerify, "skip-verify", false, "skip the sequential reference run")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if o.n < 0 {
		return options{}, errors.New("--n must be >= 0")
	}
	if o.chunk <= 0 || o.stealMin <= 0 {
		return options{}, errors.New("--chunk and --steal-min must be > 0")
	}
	if o.history && o.dbPath == "" {
		return options{}, errors.New("--history needs --db")
	}
	return o, nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MAIN ORCHESTRATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func main() {
	opts, err := parseFlags(os.Stderr, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		debug.DropError("FLAGS", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	if err := run(ctx, opts, os.Stdout); err != nil {
		debug.DropError("FAILED", err)
		os.Exit(1)
	}
}

// run executes all phases and writes the report to out.
func run(ctx context.Context, o options, out io.Writer) error {
	if o.history {
		return printHistory(ctx, o.dbPath, out)
	}

	// PHASE 0: calibration
	mode := "fast-path"
	if concrange.FullLock {
		mode = "full-lock"
	}
	debug.DropMessage("INIT", mode+" range, n="+utils.I64toa(o.n))
	tpu := tick.Calibrate(constants.CalibrationWindowMs * time.Millisecond)

	// PHASE 1: parallel run
	results := make([]uint64, o.n)
	body := func(beg, end int64) {
		for i := beg; i < end; i++ {
			results[i] = utils.Mix64(uint64(i))
		}
	}
	cfg := parfor.Config{Workers: o.workers, Chunk: o.chunk, StealMin: o.stealMin, Pin: o.pin, FirstCore: o.firstCore}
	loop := parfor.NewLoop(o.n, cfg, body)

	stopInterrupts := startInterrupts(loop, o.interrupt)
	start := time.Now()
	st, err := loop.Run(ctx)
	elapsed := time.Since(start)
	stopInterrupts()
	if err != nil {
		return fmt.Errorf("parallel run: %w", err)
	}
	debug.DropMessage("RUN", utils.I64toa(st.Items)+" items, "+utils.Itoa(int(st.Steals))+" steals in "+elapsed.String())

	rep := &report.Run{
		CreatedAt:     time.Now().UTC(),
		N:             o.n,
		Workers:       loop.Workers(),
		Chunk:         o.chunk,
		StealMin:      o.stealMin,
		Pinned:        o.pin,
		FullLock:      concrange.FullLock,
		ElapsedNs:     elapsed.Nanoseconds(),
		TicksPerMicro: tpu,
	}
	rep.FromStats(st)
	rep.Digest = report.Digest(results)

	// PHASE 2: sequential reference
	if !o.skipVerify {
		clear(results)
		parfor.Sequential(o.n, o.chunk, body)
		rep.Reference = report.Digest(results)
		if !rep.Verified() {
			return fmt.Errorf("digest mismatch: parallel %s, sequential %s", rep.Digest, rep.Reference)
		}
		debug.DropMessage("VERIFY", "parallel result matches sequential reference")
	}

	// PHASE 3: output
	if !o.quiet {
		blob, err := report.Encode(rep)
		if err != nil {
			return err
		}
		if _, err := out.Write(append(blob, '\n')); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if o.dbPath != "" {
		s, err := store.Open(o.dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		id, err := s.SaveRun(ctx, rep)
		if err != nil {
			return err
		}
		debug.DropMessage("STORE", "run "+utils.I64toa(id)+" saved to "+o.dbPath)
	}
	return nil
}

// startInterrupts arms worker poll points round-robin every period until the returned
// stop function is called.
func startInterrupts(loop *parfor.Loop, period time.Duration) (stop func()) {
	if period <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		t := time.NewTicker(period)
		defer t.Stop()
		next := 0
		for {
			select {
			case <-done:
				return
			case <-t.C:
				loop.Interrupt(next, func() {})
				next = (next + 1) % loop.Workers()
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

func printHistory(ctx context.Context, path string, out io.Writer) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, fullLock := range []bool{false, true} {
		sum, err := s.Summarize(ctx, fullLock)
		if err != nil {
			return err
		}
		name := "fast-path"
		if fullLock {
			name = "full-lock"
		}
		if _, err := fmt.Fprintf(out, "%-9s runs=%d mean=%s unverified=%d\n",
			name, sum.Runs, time.Duration(sum.MeanNs), sum.Unverified); err != nil {
			return err
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SYSTEM LIFECYCLE MANAGEMENT
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// setupSignalHandling stops running loops at their next poll point on SIGINT/SIGTERM.
func setupSignalHandling(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		debug.DropMessage("SIGNAL", "Received interrupt, stopping workers")
		control.Shutdown()
		cancel()
	}()
}
