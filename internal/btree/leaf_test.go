package btree

import (
	"testing"

	"github.com/btree-query-bench/pageindex/internal/record"
)

func TestLeafInsertSortedOrder(t *testing.T) {
	l := newLeaf(512)
	for _, k := range []int64{5, 1, 3, 2, 4} {
		l.insert(record.Record{k})
	}
	for i := 1; i < len(l.records); i++ {
		if l.records[i-1].Key() > l.records[i].Key() {
			t.Fatalf("records not sorted: %v", l.records)
		}
	}
}

func TestLeafInsertDuplicateOrdering(t *testing.T) {
	l := newLeaf(512)
	l.insert(record.Record{5, 1})
	l.insert(record.Record{3})
	l.insert(record.Record{5, 2})

	var fives []record.Record
	for _, r := range l.records {
		if r.Key() == 5 {
			fives = append(fives, r)
		}
	}
	if len(fives) != 2 || fives[0][1] != 1 || fives[1][1] != 2 {
		t.Fatalf("duplicate keys not kept in insertion order: %v", fives)
	}
}

func TestLeafRemove(t *testing.T) {
	l := newLeaf(512)
	l.insert(record.Record{1})
	l.insert(record.Record{2})
	if !l.remove(1) {
		t.Fatal("remove of present key failed")
	}
	if l.remove(1) {
		t.Fatal("remove of already-removed key reported true")
	}
	if len(l.search(1)) != 0 {
		t.Fatal("removed key still searchable")
	}
}

func TestLeafSplit(t *testing.T) {
	l := newLeaf(512)
	for k := int64(0); k < 10; k++ {
		l.insert(record.Record{k})
	}
	total := len(l.records)

	siblingNode, separator, ok := l.split()
	if !ok {
		t.Fatal("leaf split refused")
	}
	sibling := siblingNode.(*leafNode)

	if len(l.records)+len(sibling.records) != total {
		t.Fatalf("split lost or duplicated records: left=%d right=%d total=%d",
			len(l.records), len(sibling.records), total)
	}
	if separator != sibling.records[0].Key() {
		t.Fatalf("separator %d != sibling's first key %d", separator, sibling.records[0].Key())
	}
	for _, r := range l.records {
		if r.Key() >= separator {
			t.Fatalf("retained record %d >= separator %d", r.Key(), separator)
		}
	}
}
