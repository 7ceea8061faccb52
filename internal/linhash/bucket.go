package linhash

import (
	"github.com/btree-query-bench/pageindex/internal/page"
	"github.com/btree-query-bench/pageindex/internal/record"
)

// bucket is a singly-linked chain of fixed-budget pages: a head page
// that absorbs inserts while they fit its budget, spilling into an
// on-demand overflow tail otherwise. Records are unordered, and
// duplicate keys are rejected chain-wide.
type bucket struct {
	budget  page.Budget
	records []record.Record
	tail    *bucket
}

func newBucket(budget page.Budget) *bucket {
	return &bucket{budget: budget}
}

// insert appends rec, rejecting a duplicate key anywhere in the chain.
// Reports whether the insert succeeded.
func (b *bucket) insert(rec record.Record) bool {
	if len(b.search(rec.Key())) > 0 {
		return false
	}
	b.insertUnchecked(rec)
	return true
}

// insertUnchecked appends rec without a duplicate check, used during
// split redistribution where duplicates cannot occur by construction.
func (b *bucket) insertUnchecked(rec record.Record) {
	if !b.budget.Overflowing(b.occupiedSize()+record.Size(rec)) || len(b.records) == 0 {
		b.records = append(b.records, rec)
		return
	}
	if b.tail == nil {
		b.tail = newBucket(b.budget)
	}
	b.tail.insertUnchecked(rec)
}

func (b *bucket) occupiedSize() int {
	total := 0
	for _, r := range b.records {
		total += record.Size(r)
	}
	return total
}

// remove scans head then tail, dropping the first match. No coalescing of
// chained pages on removal — an emptied tail page is left in place.
func (b *bucket) remove(key int64) bool {
	for i, r := range b.records {
		if r.Key() == key {
			b.records = append(b.records[:i], b.records[i+1:]...)
			return true
		}
	}
	if b.tail != nil {
		return b.tail.remove(key)
	}
	return false
}

// search scans head then tail. Duplicate rejection guarantees at most one
// match, but the slice return keeps the shape uniform with the B-tree's
// multi-match search.
func (b *bucket) search(key int64) []record.Record {
	for _, r := range b.records {
		if r.Key() == key {
			return []record.Record{r}
		}
	}
	if b.tail != nil {
		return b.tail.search(key)
	}
	return nil
}

// allRecords concatenates head and tail payloads in chain order, for
// redistribution during a split.
func (b *bucket) allRecords() []record.Record {
	out := append([]record.Record(nil), b.records...)
	if b.tail != nil {
		out = append(out, b.tail.allRecords()...)
	}
	return out
}

// overflowPageCount counts tail pages beyond the head, for statistics.
func (b *bucket) overflowPageCount() int {
	if b.tail == nil {
		return 0
	}
	return 1 + b.tail.overflowPageCount()
}

// clear empties the chain down to a single, empty head page.
func (b *bucket) clear() {
	b.records = nil
	b.tail = nil
}
