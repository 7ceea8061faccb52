package btree

import (
	"sort"

	"github.com/btree-query-bench/pageindex/internal/page"
	"github.com/btree-query-bench/pageindex/internal/record"
)

// internalNode stores the conceptual alternating sequence
// [c0, k0, c1, k1, ..., kn-1, cn] as two parallel slices, so
// len(children) == len(keys)+1 always holds. Keys are strictly
// increasing; every key in ci's subtree is < ki and >= k_{i-1}. All
// children of one node have the same type, since splits only ever
// propagate same-typed siblings.
type internalNode struct {
	budget   page.Budget
	children []pageNode
	keys     []int64
}

// newInternalRoot builds the internal node the B-tree driver installs as
// its new root after a root split.
func newInternalRoot(budget page.Budget, left pageNode, separator int64, right pageNode) *internalNode {
	return &internalNode{
		budget:   budget,
		children: []pageNode{left, right},
		keys:     []int64{separator},
	}
}

func (n *internalNode) isLeaf() bool { return false }

func (n *internalNode) occupiedSize() int {
	const childPtrBytes = 8
	const keyBytes = 8
	total := 0
	for range n.children {
		total += childPtrBytes
	}
	total += keyBytes * len(n.keys)
	return total
}

// childIndex returns the first index i with keys[i] > key, i.e. the index
// of the child that owns key (or the rightmost child when no key
// exceeds it). A key equal to a separator descends to the right child.
func (n *internalNode) childIndex(key int64) int {
	return sort.Search(len(n.keys), func(i int) bool {
		return n.keys[i] > key
	})
}

func (n *internalNode) insert(rec record.Record) {
	i := n.childIndex(rec.Key())
	n.children[i].insert(rec)
	if n.budget.Overflowing(n.children[i].occupiedSize()) {
		n.splitChild(i)
	}
}

// splitChild absorbs an overflowing child at pos by splitting it and
// adopting the new sibling directly after it, with the promoted
// separator between them. If the child refuses to split (an undersized
// internal child), the overflow is deferred: the child stays overfull
// and is retried the next time an insert descends into it.
func (n *internalNode) splitChild(pos int) {
	child := n.children[pos]
	sibling, separator, ok := child.split()
	if !ok {
		return
	}

	n.children = append(n.children, nil)
	copy(n.children[pos+2:], n.children[pos+1:])
	n.children[pos+1] = sibling

	n.keys = append(n.keys, 0)
	copy(n.keys[pos+1:], n.keys[pos:])
	n.keys[pos] = separator
}

func (n *internalNode) remove(key int64) bool {
	i := n.childIndex(key)
	// No rebalancing: underfull children survive and separators are not
	// updated. Searches stay correct because separators only bound
	// subtree contents, they never identify them.
	return n.children[i].remove(key)
}

func (n *internalNode) search(key int64) []record.Record {
	i := n.childIndex(key)
	return n.children[i].search(key)
}

// split chooses childMid = len(children)/2 and retains children[:childMid]
// (with their childMid-1 internal keys) locally. children[childMid-1] and
// children[childMid] were separated by keys[childMid-1]; that key is
// promoted to the parent rather than kept on either side, unlike a leaf
// split's copied-up separator. An internal page with fewer than 3 keys
// refuses to split rather than leave the retained side keyless.
func (n *internalNode) split() (pageNode, int64, bool) {
	if len(n.keys) < 3 {
		return nil, 0, false
	}

	childMid := len(n.children) / 2
	separator := n.keys[childMid-1]

	sibling := &internalNode{budget: n.budget}
	sibling.children = append(sibling.children, n.children[childMid:]...)
	sibling.keys = append(sibling.keys, n.keys[childMid:]...)

	n.children = n.children[:childMid:childMid]
	n.keys = n.keys[:childMid-1 : childMid-1]

	return sibling, separator, true
}
