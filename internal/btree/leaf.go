package btree

import (
	"sort"

	"github.com/btree-query-bench/pageindex/internal/page"
	"github.com/btree-query-bench/pageindex/internal/record"
)

// leafNode holds records sorted by ascending key. Occupied size may
// transiently exceed the budget during insert; the caller is responsible
// for splitting before returning to the outer caller.
type leafNode struct {
	budget  page.Budget
	records []record.Record
}

func newLeaf(budget page.Budget) *leafNode {
	return &leafNode{budget: budget}
}

func (l *leafNode) isLeaf() bool { return true }

func (l *leafNode) occupiedSize() int {
	total := 0
	for _, r := range l.records {
		total += record.Size(r)
	}
	return total
}

// insert finds the first index whose key exceeds the new record's key and
// inserts there, so a duplicate key always lands after all existing equal
// keys.
func (l *leafNode) insert(rec record.Record) {
	pos := sort.Search(len(l.records), func(i int) bool {
		return l.records[i].Key() > rec.Key()
	})
	l.records = append(l.records, nil)
	copy(l.records[pos+1:], l.records[pos:])
	l.records[pos] = rec
}

func (l *leafNode) remove(key int64) bool {
	for i, r := range l.records {
		if r.Key() == key {
			l.records = append(l.records[:i], l.records[i+1:]...)
			return true
		}
	}
	return false
}

func (l *leafNode) search(key int64) []record.Record {
	var out []record.Record
	for _, r := range l.records {
		if r.Key() == key {
			out = append(out, r)
		}
	}
	return out
}

// split partitions at mid = floor(len/2); the new leaf owns [mid:len),
// and its first (lowest) key is copied up as the separator the parent
// stores — unlike an internal split's separator, this key is not removed
// from either side, only duplicated into the parent's key array.
func (l *leafNode) split() (pageNode, int64, bool) {
	mid := len(l.records) / 2
	sibling := newLeaf(l.budget)
	sibling.records = append(sibling.records, l.records[mid:]...)
	l.records = l.records[:mid:mid]
	return sibling, sibling.records[0].Key(), true
}
