// Package script loads CSV operation scripts against an index engine:
// "+" inserts the row's values as one record, "-" removes by key, "?"
// searches by key. The first row is a header and is always discarded.
package script

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/btree-query-bench/pageindex/internal/diag"
	"github.com/btree-query-bench/pageindex/internal/record"
)

// Target is the minimal engine surface the loader drives.
type Target interface {
	Insert(rec record.Record) bool
	Remove(key int64) bool
	Search(key int64) []record.Record
}

// Load reads a CSV script from r and applies every row to target in
// order. A blank row, or a row containing only the op field, is skipped
// and logged. A malformed row (a non-integer value field) aborts loading
// and returns a diag.ErrParse-wrapped error; rows already applied before
// the failure stay applied — execution is strictly sequential, with no
// rollback.
func Load(r io.Reader, target Target, log logr.Logger) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil
		}
		return diag.IOErrorf("reading script header: %v", err)
	}

	lineNo := 1
	for {
		lineNo++
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return diag.IOErrorf("reading script row %d: %v", lineNo, err)
		}

		if isBlankOrOpOnly(row) {
			log.Info("skipping row", "line", lineNo)
			continue
		}

		if err := applyRow(row, target, log); err != nil {
			return diag.ParseErrorf("row %d: %v", lineNo, err)
		}
	}
}

// isBlankOrOpOnly reports whether row has at most one non-blank field —
// i.e. it is entirely blank, or carries only the op token with no values.
func isBlankOrOpOnly(row []string) bool {
	nonBlank := 0
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			nonBlank++
		}
	}
	return nonBlank <= 1
}

func applyRow(row []string, target Target, log logr.Logger) error {
	op := strings.TrimSpace(row[0])
	vals := make([]int64, 0, len(row)-1)
	for _, f := range row[1:] {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return err
		}
		vals = append(vals, v)
	}

	switch op {
	case "+":
		if len(vals) == 0 {
			return diag.ParseErrorf("insert row has no values")
		}
		if !target.Insert(record.Record(vals)) {
			log.Info("insert rejected", "key", vals[0])
		}
	case "-":
		if len(vals) == 0 {
			return diag.ParseErrorf("remove row has no key")
		}
		// Only the key matters; trailing columns are ignored.
		if !target.Remove(vals[0]) {
			log.Info("remove missed", "key", vals[0])
		}
	case "?":
		if len(vals) == 0 {
			return diag.ParseErrorf("search row has no key")
		}
		log.Info("search", "key", vals[0], "matches", len(target.Search(vals[0])))
	default:
		return diag.ParseErrorf("unrecognized op %q", op)
	}
	return nil
}
