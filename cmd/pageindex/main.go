// Command pageindex drives the two index engines: a flag-parsed batch
// mode that loads a CSV script and optionally prints statistics or a
// B-tree range search, and an interactive prompt mode when no script
// file is given.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-logr/logr"

	"github.com/btree-query-bench/pageindex/internal/btree"
	"github.com/btree-query-bench/pageindex/internal/diag"
	"github.com/btree-query-bench/pageindex/internal/indexapi"
	"github.com/btree-query-bench/pageindex/internal/linhash"
	"github.com/btree-query-bench/pageindex/internal/page"
	"github.com/btree-query-bench/pageindex/internal/record"
	"github.com/btree-query-bench/pageindex/internal/script"
)

const (
	exitOK        = 0
	exitUsageOrIO = 1
	exitInterrupt = 130
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// config holds the parsed and validated CLI surface.
type config struct {
	indexType   string
	file        string
	pageSize    int
	debug       bool
	buckets     int
	utilization float64
	stats       bool
	hasRange    bool
	rangeLo     int64
	rangeHi     int64
}

func run(args []string, stdin *os.File, stdout, stderr *os.File) int {
	args, rangeLo, rangeHi, hasRange := extractRange(args)

	fs := flag.NewFlagSet("pageindex", flag.ContinueOnError)
	fs.SetOutput(stderr)

	indexType := fs.String("t", "", "index type: btree, b, linear, or l (required)")
	file := fs.String("f", "", "input CSV script file; absence means interactive mode")
	pageSize := fs.Int("p", 512, "page size in bytes, minimum 256")
	debug := fs.Bool("D", false, "enable debug-level diagnostics")
	buckets := fs.Int("b", 4, "[linear hash] initial bucket count")
	utilization := fs.Float64("u", 0.8, "[linear hash] load-factor threshold, in (0,1]")
	stats := fs.Bool("s", false, "print statistics after load")

	if err := fs.Parse(args); err != nil {
		return exitUsageOrIO
	}

	cfg := config{
		indexType:   strings.ToLower(*indexType),
		file:        *file,
		pageSize:    *pageSize,
		debug:       *debug,
		buckets:     *buckets,
		utilization: *utilization,
		stats:       *stats,
		hasRange:    hasRange,
		rangeLo:     rangeLo,
		rangeHi:     rangeHi,
	}

	if err := validate(cfg); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsageOrIO
	}

	log := diag.NewLogger(cfg.debug)

	ctx, cancel := interruptible()
	defer cancel()

	result := make(chan int, 1)
	go func() {
		if isBTree(cfg.indexType) {
			result <- driveBTree(cfg, log, stdin, stdout, stderr)
		} else {
			result <- driveLinHash(cfg, log, stdin, stdout, stderr)
		}
	}()

	select {
	case code := <-result:
		return code
	case <-ctx.Done():
		fmt.Fprintln(stderr, "\ninterrupted")
		return exitInterrupt
	}
}

// extractRange pulls a "--range LO HI" pair out of args (flag's standard
// parser has no native two-value flag), returning the remaining args.
func extractRange(args []string) (rest []string, lo, hi int64, ok bool) {
	for i, a := range args {
		if a != "--range" {
			continue
		}
		if i+2 >= len(args) {
			return args, 0, 0, false
		}
		lov, errLo := strconv.ParseInt(args[i+1], 10, 64)
		hiv, errHi := strconv.ParseInt(args[i+2], 10, 64)
		if errLo != nil || errHi != nil {
			return args, 0, 0, false
		}
		rest = append(rest, args[:i]...)
		rest = append(rest, args[i+3:]...)
		return rest, lov, hiv, true
	}
	return args, 0, 0, false
}

func validate(cfg config) error {
	switch cfg.indexType {
	case "btree", "b", "linear", "l":
	default:
		return diag.UsageErrorf("index type must be one of btree, b, linear, l")
	}
	if cfg.pageSize < page.MinSize {
		return diag.UsageErrorf("page size must be at least %d bytes", page.MinSize)
	}
	if cfg.utilization <= 0 || cfg.utilization > 1 {
		return diag.UsageErrorf("utilization must be in (0, 1]")
	}
	if cfg.buckets < 1 || cfg.buckets&(cfg.buckets-1) != 0 {
		return diag.UsageErrorf("initial bucket count must be a power of 2, at least 1")
	}
	if cfg.hasRange && (cfg.indexType == "linear" || cfg.indexType == "l") {
		return diag.UsageErrorf("range search is only supported for the B-tree")
	}
	return nil
}

func isBTree(indexType string) bool {
	return indexType == "btree" || indexType == "b"
}

func driveBTree(cfg config, log logr.Logger, stdin *os.File, stdout, stderr *os.File) int {
	idx := btree.New(cfg.pageSize, log)

	if cfg.file == "" {
		return interactive(idx, stdin, stdout, stderr)
	}

	f, err := os.Open(cfg.file)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsageOrIO
	}
	defer f.Close()

	if err := script.Load(f, idx, log); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsageOrIO
	}

	if cfg.hasRange {
		results := idx.RangeSearch(cfg.rangeLo, cfg.rangeHi)
		fmt.Fprintf(stdout, "range [%d, %d]: %d records\n", cfg.rangeLo, cfg.rangeHi, len(results))
		for i, r := range results {
			if i >= 10 {
				fmt.Fprintf(stdout, "  ... and %d more\n", len(results)-10)
				break
			}
			fmt.Fprintf(stdout, "  %v\n", []int64(r))
		}
	}

	if cfg.stats {
		s := idx.Statistics()
		fmt.Fprintf(stdout, "height: %d\nnum_nodes: %d\nnum_leaf_nodes: %d\nnum_records: %d\n",
			s.Height, s.NumNodes, s.NumLeafNodes, s.NumRecords)
	}

	return exitOK
}

func driveLinHash(cfg config, log logr.Logger, stdin *os.File, stdout, stderr *os.File) int {
	idx := linhash.New(cfg.pageSize, cfg.buckets, cfg.utilization, log)

	if cfg.file == "" {
		return interactive(idx, stdin, stdout, stderr)
	}

	f, err := os.Open(cfg.file)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsageOrIO
	}
	defer f.Close()

	if err := script.Load(f, idx, log); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitUsageOrIO
	}

	if cfg.stats {
		s := idx.Statistics()
		fmt.Fprintf(stdout, "num_buckets: %d\nnum_records: %d\nlevel: %d\nnext_split: %d\n"+
			"num_splits: %d\noverflow_pages: %d\nmean_occupancy: %.2f\n",
			s.NumBuckets, s.NumRecords, s.Level, s.NextSplit, s.NumSplits, s.OverflowPages, s.MeanOccupancy)
	}

	return exitOK
}

// interactive runs the line-oriented prompt: "+" inserts, "-" removes,
// "?" or a bare integer searches, "q" quits.
func interactive(idx indexapi.ScriptTarget, stdin *os.File, stdout, stderr *os.File) int {
	scanner := bufio.NewScanner(stdin)
	fmt.Fprintln(stdout, "interactive mode: + insert, - remove, ? or bare int search, q quit")
	for {
		fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			return exitOK
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "q" {
			return exitOK
		}

		fields := strings.Fields(line)
		op := fields[0]
		rest := fields[1:]

		switch {
		case op == "+":
			rec, err := parseInts(rest)
			if err != nil || len(rec) == 0 {
				fmt.Fprintln(stderr, "invalid insert:", line)
				continue
			}
			fmt.Fprintln(stdout, idx.Insert(record.Record(rec)))
		case op == "-":
			if len(rest) != 1 {
				fmt.Fprintln(stderr, "invalid remove:", line)
				continue
			}
			key, err := strconv.ParseInt(rest[0], 10, 64)
			if err != nil {
				fmt.Fprintln(stderr, "invalid remove:", line)
				continue
			}
			fmt.Fprintln(stdout, idx.Remove(key))
		case op == "?":
			if len(rest) != 1 {
				fmt.Fprintln(stderr, "invalid search:", line)
				continue
			}
			key, err := strconv.ParseInt(rest[0], 10, 64)
			if err != nil {
				fmt.Fprintln(stderr, "invalid search:", line)
				continue
			}
			fmt.Fprintln(stdout, idx.Search(key))
		default:
			key, err := strconv.ParseInt(op, 10, 64)
			if err != nil || len(rest) != 0 {
				fmt.Fprintln(stderr, "invalid input:", line)
				continue
			}
			fmt.Fprintln(stdout, idx.Search(key))
		}
	}
}

func parseInts(fields []string) ([]int64, error) {
	out := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// interruptible returns a context-shaped done channel closed on SIGINT,
// so a long-running batch load can report exit code 130 instead of
// leaving the terminal in an interrupted raw state.
func interruptible() (doneCtx, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			close(done)
		case <-done:
		}
	}()
	return doneCtx{done}, func() { signal.Stop(sigCh) }
}

type doneCtx struct {
	ch chan struct{}
}

func (d doneCtx) Done() <-chan struct{} { return d.ch }
