// Command plot renders cmd/bench's CSV output as a latency-vs-page-size
// chart, one line per index structure.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func main() {
	in := flag.String("i", "bench_results.csv", "bench CSV input path")
	out := flag.String("o", "bench_latency.png", "output PNG path")
	flag.Parse()

	if err := run(*in, *out); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type series struct {
	structure string
	points    plotter.XYs
}

func run(inPath, outPath string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("no data rows in %s", inPath)
	}

	byStructure := map[string]plotter.XYs{}
	for _, row := range rows[1:] {
		if len(row) < 5 || row[2] != "Insert" {
			continue
		}
		structure := row[0]
		pageSize, ok := extractPageSize(row[1])
		if !ok {
			continue
		}
		latency, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			continue
		}
		byStructure[structure] = append(byStructure[structure], plotter.XY{X: pageSize, Y: latency})
	}

	var names []string
	for name := range byStructure {
		names = append(names, name)
	}
	sort.Strings(names)

	p := plot.New()
	p.Title.Text = "Insert latency vs page size"
	p.X.Label.Text = "page size (bytes)"
	p.Y.Label.Text = "latency (ns/op)"

	var plotArgs []interface{}
	for _, name := range names {
		pts := byStructure[name]
		sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
		plotArgs = append(plotArgs, name, pts)
	}
	if err := plotutil.AddLinePoints(p, plotArgs...); err != nil {
		return err
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, outPath)
}

// extractPageSize pulls a leading integer out of a Config field like
// "512" (B-tree) or "p512_u0.80" (Linear Hashing).
func extractPageSize(config string) (float64, bool) {
	digits := strings.Builder{}
	seenDigit := false
	for _, r := range config {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			seenDigit = true
			continue
		}
		if seenDigit {
			break
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
