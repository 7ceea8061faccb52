// Command bench sweeps page sizes and, for Linear Hashing, utilization
// thresholds across both index engines, recording per-run latency and
// runtime.MemStats snapshots to a CSV. With -dot it also renders each
// B-tree run's final shape to PNG through Graphviz.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/btree-query-bench/pageindex/internal/btree"
	"github.com/btree-query-bench/pageindex/internal/linhash"
	"github.com/btree-query-bench/pageindex/internal/record"
)

// benchResult is one CSV row: a single (structure, config, operation)
// measurement.
type benchResult struct {
	Structure string
	Config    string
	Operation string
	LatencyNs int64
	MemMB     uint64
	Objects   uint64
}

func recordRow(w *csv.Writer, r benchResult) {
	w.Write([]string{
		r.Structure,
		r.Config,
		r.Operation,
		strconv.FormatInt(r.LatencyNs, 10),
		strconv.FormatUint(r.MemMB, 10),
		strconv.FormatUint(r.Objects, 10),
	})
}

// memSnapshot forces a GC first so the snapshot reflects live data
// rather than not-yet-collected garbage.
func memSnapshot() (allocMB, heapObjects uint64) {
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc / 1024 / 1024, m.HeapObjects
}

func main() {
	out := flag.String("o", "bench_results.csv", "output CSV path")
	n := flag.Int("n", 100000, "records inserted per configuration")
	dotDir := flag.String("dot", "", "directory to render final B-tree shapes into (requires graphviz 'dot'); empty disables rendering")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{"Structure", "Config", "Operation", "LatencyNs", "MemMB", "HeapObjects"})

	pageSizes := []int{256, 512, 2048, 8192}
	utilizations := []float64{0.6, 0.8, 0.95}

	log := logr.Discard()

	for _, p := range pageSizes {
		runBTreeSuite(w, p, *n, log, *dotDir)
	}
	for _, p := range pageSizes {
		for _, u := range utilizations {
			runLinHashSuite(w, p, u, *n, log)
		}
	}

	fmt.Println("benchmark complete:", *out)
}

func runBTreeSuite(w *csv.Writer, pageSize, n int, log logr.Logger, dotDir string) {
	conf := strconv.Itoa(pageSize)
	idx := btree.New(pageSize, log)

	start := time.Now()
	for k := 0; k < n; k++ {
		idx.Insert(record.Record{int64(k), 0})
	}
	latency := time.Since(start).Nanoseconds() / int64(n)

	allocMB, objects := memSnapshot()
	recordRow(w, benchResult{"BTree", conf, "Insert", latency, allocMB, objects})

	start = time.Now()
	for k := 0; k < n; k += 7 {
		idx.Search(int64(k))
	}
	searchOps := int64(n/7 + 1)
	recordRow(w, benchResult{"BTree", conf, "Search", time.Since(start).Nanoseconds() / searchOps, allocMB, objects})

	if dotDir != "" {
		renderTree(idx, dotDir, fmt.Sprintf("btree_p%d", pageSize))
	}
}

func runLinHashSuite(w *csv.Writer, pageSize int, utilization float64, n int, log logr.Logger) {
	conf := fmt.Sprintf("p%d_u%.2f", pageSize, utilization)
	idx := linhash.New(pageSize, 4, utilization, log)

	start := time.Now()
	for k := 0; k < n; k++ {
		idx.Insert(record.Record{int64(k), 0})
	}
	latency := time.Since(start).Nanoseconds() / int64(n)

	allocMB, objects := memSnapshot()
	recordRow(w, benchResult{"LinearHash", conf, "Insert", latency, allocMB, objects})

	s := idx.Statistics()
	recordRow(w, benchResult{"LinearHash", conf, fmt.Sprintf("Splits=%d", s.NumSplits), 0, allocMB, objects})
}

// renderTree shells out to Graphviz dot, soft-failing (logged, not
// fatal) when the binary is unavailable.
func renderTree(idx *btree.BTree, dir, name string) {
	if _, err := exec.LookPath("dot"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: graphviz 'dot' not found, skipping render of %s\n", name)
		return
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
		return
	}

	dotPath := fmt.Sprintf("%s/%s.dot", dir, name)
	pngPath := fmt.Sprintf("%s/%s.png", dir, name)

	df, err := os.Create(dotPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
		return
	}
	if err := idx.ExportDOT(df); err != nil {
		df.Close()
		fmt.Fprintln(os.Stderr, "warning: DOT export failed:", err)
		return
	}
	df.Close()

	cmd := exec.Command("dot", "-Tpng", dotPath, "-o", pngPath)
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: graphviz render failed:", err)
		return
	}
	fmt.Println("rendered", pngPath)
}
