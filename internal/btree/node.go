package btree

import "github.com/btree-query-bench/pageindex/internal/record"

// pageNode is the tagged-variant interface implemented by *leafNode and
// *internalNode. There is no base class; leaf and internal pages share
// nothing but this contract.
type pageNode interface {
	isLeaf() bool
	insert(rec record.Record)
	remove(key int64) bool
	search(key int64) []record.Record
	occupiedSize() int

	// split partitions the page, retaining the left half locally and
	// returning the right half as a new sibling, plus the separator key
	// to promote to the parent (or new root). ok is false only when an
	// internal page has too few keys to split without leaving a keyless
	// half; the caller must defer the overflow.
	split() (sibling pageNode, separator int64, ok bool)
}
