// Package btree implements a byte-budget-driven B-tree index engine: an
// in-memory page tree whose split trigger is a page's occupied-size
// budget rather than a fixed fanout. Splits propagate bottom-up — a
// parent detects an overfull child after the recursive insert returns
// and absorbs the new sibling — and the root grows or shrinks the tree
// by exactly one level per split or collapse.
package btree

import (
	"github.com/go-logr/logr"

	"github.com/btree-query-bench/pageindex/internal/page"
	"github.com/btree-query-bench/pageindex/internal/record"
)

// Statistics reports the tree's structural counts, computed by a single
// postorder walk. An all-leaf root has height 1.
type Statistics struct {
	Height       int
	NumNodes     int
	NumLeafNodes int
	NumRecords   int
}

// BTree is the engine. It satisfies indexapi.Engine and
// indexapi.RangeSearcher.
type BTree struct {
	budget page.Budget
	root   pageNode
	log    logr.Logger
}

// New returns an empty B-tree whose pages overflow past budget bytes.
// Budgets below page.MinSize are clamped up to it.
func New(budget int, log logr.Logger) *BTree {
	if budget < page.MinSize {
		budget = page.MinSize
	}
	b := page.Budget(budget)
	return &BTree{
		budget: b,
		root:   newLeaf(b),
		log:    log,
	}
}

// Insert adds rec, duplicates permitted. Reports true unconditionally —
// a B-tree insert never fails. The tree takes its own copy of rec, so
// callers may reuse the slice.
func (t *BTree) Insert(rec record.Record) bool {
	t.log.V(1).Info("insert", "key", rec.Key())
	t.root.insert(rec.Clone())
	if t.budget.Overflowing(t.root.occupiedSize()) {
		if sibling, separator, ok := t.root.split(); ok {
			t.log.Info("root split", "separator", separator)
			t.root = newInternalRoot(t.budget, t.root, separator, sibling)
		}
	}
	return true
}

// Remove deletes the first record matching key, reporting whether one was
// found. No rebalancing or ancestor-separator maintenance is performed —
// only the degenerate case of a single-child internal root is collapsed,
// since an internal root with one child is permanently useless dead
// weight on every lookup.
func (t *BTree) Remove(key int64) bool {
	t.log.V(1).Info("remove", "key", key)
	ok := t.root.remove(key)
	if in, isInternal := t.root.(*internalNode); isInternal && len(in.children) == 1 {
		t.log.Info("root collapse")
		t.root = in.children[0]
	}
	return ok
}

// Search returns every record with the given key.
func (t *BTree) Search(key int64) []record.Record {
	return t.root.search(key)
}

// RangeSearch returns every record whose key falls in [lo, hi]. There is
// no leaf-sibling chain in this design, so the scan walks the tree
// directly, pruning subtrees whose separator bounds cannot overlap the
// range.
func (t *BTree) RangeSearch(lo, hi int64) []record.Record {
	var out []record.Record
	rangeWalk(t.root, lo, hi, &out)
	return out
}

func rangeWalk(n pageNode, lo, hi int64, out *[]record.Record) {
	switch p := n.(type) {
	case *leafNode:
		for _, r := range p.records {
			k := r.Key()
			if k >= lo && k <= hi {
				*out = append(*out, r)
			}
		}
	case *internalNode:
		for i, child := range p.children {
			// A child can only contribute keys in [lo, hi] if its key
			// range overlaps; cheaply bound using neighboring separators.
			if i > 0 && p.keys[i-1] > hi {
				continue
			}
			if i < len(p.keys) && p.keys[i] < lo {
				continue
			}
			rangeWalk(child, lo, hi, out)
		}
	}
}

// Statistics walks the tree once, postorder, accumulating all four
// structural counts in a single pass.
func (t *BTree) Statistics() Statistics {
	var s Statistics
	s.Height = walkStats(t.root, &s)
	return s
}

func walkStats(n pageNode, s *Statistics) int {
	s.NumNodes++
	switch p := n.(type) {
	case *leafNode:
		s.NumLeafNodes++
		s.NumRecords += len(p.records)
		return 1
	case *internalNode:
		height := 0
		for _, child := range p.children {
			if h := walkStats(child, s); h > height {
				height = h
			}
		}
		return height + 1
	}
	return 0
}
