package btree

import (
	"testing"

	"github.com/btree-query-bench/pageindex/internal/page"
)

// buildInternal constructs an internalNode directly from n+1 leaf
// children and n separator keys, bypassing the driver, to exercise
// split and childIndex in isolation.
func buildInternal(budget page.Budget, keys []int64) *internalNode {
	in := &internalNode{budget: budget, keys: append([]int64(nil), keys...)}
	for range keys {
		in.children = append(in.children, newLeaf(budget))
	}
	in.children = append(in.children, newLeaf(budget)) // n+1th child
	return in
}

func TestInternalSplitRefusesBelowThreeKeys(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		keys := make([]int64, n)
		for i := range keys {
			keys[i] = int64(i)
		}
		in := buildInternal(512, keys)
		if _, _, ok := in.split(); ok {
			t.Fatalf("split() with %d keys should refuse, but succeeded", n)
		}
	}
}

func TestInternalSplitPartitionsExactly(t *testing.T) {
	keys := []int64{10, 20, 30, 40, 50}
	in := buildInternal(512, keys)
	totalChildrenBefore := len(in.children)
	totalKeysBefore := len(in.keys)

	siblingNode, separator, ok := in.split()
	if !ok {
		t.Fatal("split() refused with 5 keys")
	}
	sibling := siblingNode.(*internalNode)

	if len(in.children)+len(sibling.children) != totalChildrenBefore {
		t.Fatalf("children lost or duplicated: left=%d right=%d total=%d",
			len(in.children), len(sibling.children), totalChildrenBefore)
	}
	if len(in.keys)+1+len(sibling.keys) != totalKeysBefore {
		t.Fatalf("keys not conserved (separator promoted once): left=%d sep=1 right=%d total=%d",
			len(in.keys), len(sibling.keys), totalKeysBefore)
	}
	if len(in.children) != len(in.keys)+1 {
		t.Fatalf("retained side has %d children for %d keys, want keys+1", len(in.children), len(in.keys))
	}
	if len(sibling.children) != len(sibling.keys)+1 {
		t.Fatalf("new side has %d children for %d keys, want keys+1", len(sibling.children), len(sibling.keys))
	}

	for _, k := range in.keys {
		if k >= separator {
			t.Fatalf("retained key %d >= promoted separator %d", k, separator)
		}
	}
	for _, k := range sibling.keys {
		if k <= separator {
			t.Fatalf("sibling key %d <= promoted separator %d", k, separator)
		}
	}
}

func TestInternalChildIndex(t *testing.T) {
	in := buildInternal(512, []int64{10, 20, 30})
	cases := []struct {
		key  int64
		want int
	}{
		{5, 0}, {10, 1}, {15, 1}, {20, 2}, {25, 2}, {30, 3}, {100, 3},
	}
	for _, c := range cases {
		if got := in.childIndex(c.key); got != c.want {
			t.Fatalf("childIndex(%d) = %d, want %d", c.key, got, c.want)
		}
	}
}
