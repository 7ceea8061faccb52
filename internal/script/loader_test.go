package script

import (
	"strings"
	"testing"

	"github.com/go-logr/logr"

	"github.com/btree-query-bench/pageindex/internal/record"
)

// fakeTarget is a minimal in-memory stand-in for an engine, recording
// every call so tests can assert on dispatch without depending on either
// real engine package.
type fakeTarget struct {
	inserted []record.Record
	removed  []int64
	searched []int64
}

func (f *fakeTarget) Insert(rec record.Record) bool {
	f.inserted = append(f.inserted, rec)
	return true
}

func (f *fakeTarget) Remove(key int64) bool {
	f.removed = append(f.removed, key)
	return true
}

func (f *fakeTarget) Search(key int64) []record.Record {
	f.searched = append(f.searched, key)
	return nil
}

func TestLoadDispatchesOps(t *testing.T) {
	csv := "op,v0,v1\n+,10,100\n-,5\n?,7\n"
	target := &fakeTarget{}

	if err := Load(strings.NewReader(csv), target, logr.Discard()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if len(target.inserted) != 1 || target.inserted[0].Key() != 10 || target.inserted[0][1] != 100 {
		t.Fatalf("inserted = %v, want one record [10 100]", target.inserted)
	}
	if len(target.removed) != 1 || target.removed[0] != 5 {
		t.Fatalf("removed = %v, want [5]", target.removed)
	}
	if len(target.searched) != 1 || target.searched[0] != 7 {
		t.Fatalf("searched = %v, want [7]", target.searched)
	}
}

func TestLoadSkipsBlankAndOpOnlyRows(t *testing.T) {
	csv := "header\n\n+\n-\n+,1\n"
	target := &fakeTarget{}

	if err := Load(strings.NewReader(csv), target, logr.Discard()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(target.inserted) != 1 || target.inserted[0].Key() != 1 {
		t.Fatalf("inserted = %v, want exactly one record [1]", target.inserted)
	}
	if len(target.removed) != 0 {
		t.Fatalf("removed = %v, want none (the bare '-' row should be skipped)", target.removed)
	}
}

func TestLoadIgnoresTrailingColumnsOnRemoveAndSearch(t *testing.T) {
	csv := "op,v0,v1\n-,17,99\n?,5,42\n"
	target := &fakeTarget{}

	if err := Load(strings.NewReader(csv), target, logr.Discard()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(target.removed) != 1 || target.removed[0] != 17 {
		t.Fatalf("removed = %v, want [17] with the trailing column ignored", target.removed)
	}
	if len(target.searched) != 1 || target.searched[0] != 5 {
		t.Fatalf("searched = %v, want [5] with the trailing column ignored", target.searched)
	}
}

func TestLoadAbortsOnMalformedRow(t *testing.T) {
	csv := "header\n+,abc\n+,1\n"
	target := &fakeTarget{}

	err := Load(strings.NewReader(csv), target, logr.Discard())
	if err == nil {
		t.Fatal("Load should return an error for a non-integer field")
	}
	if len(target.inserted) != 0 {
		t.Fatalf("inserted = %v, want none — loading must abort before the malformed row's effects propagate", target.inserted)
	}
}

func TestLoadEmptyStreamIsNotAnError(t *testing.T) {
	target := &fakeTarget{}
	if err := Load(strings.NewReader(""), target, logr.Discard()); err != nil {
		t.Fatalf("Load of an empty stream returned error: %v", err)
	}
}
