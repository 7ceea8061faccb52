package linhash

import (
	"strings"
	"testing"

	"github.com/go-logr/logr"

	"github.com/btree-query-bench/pageindex/internal/record"
	"github.com/btree-query-bench/pageindex/internal/script"
)

func TestDuplicateRejection(t *testing.T) {
	lh := New(512, 4, 0.8, logr.Discard())

	if !lh.Insert(record.Record{7, 1}) {
		t.Fatal("first insert of key 7 should succeed")
	}
	if lh.Insert(record.Record{7, 2}) {
		t.Fatal("second insert of duplicate key 7 should be rejected")
	}

	got := lh.Search(7)
	if len(got) != 1 || got[0][1] != 1 {
		t.Fatalf("Search(7) = %v, want [[7 1]]", got)
	}
	if lh.Statistics().NumRecords != 1 {
		t.Fatalf("NumRecords = %d, want 1", lh.Statistics().NumRecords)
	}
}

// The first split happens exactly when the load-factor rule first holds,
// and repartitions bucket 0 into buckets 0 and N0 via h_{d+1}.
func TestFirstSplitTrigger(t *testing.T) {
	lh := New(512, 4, 0.8, logr.Discard())

	var k int64
	for lh.Statistics().NumSplits == 0 {
		lh.Insert(record.Record{k, 0})
		k++
		if k > 100000 {
			t.Fatal("split never triggered within 100000 inserts")
		}
	}

	s := lh.Statistics()
	if s.NumSplits != 1 {
		t.Fatalf("NumSplits = %d, want exactly 1", s.NumSplits)
	}
	if s.NumBuckets != 5 {
		t.Fatalf("NumBuckets = %d, want 5 (N0=4 plus one split)", s.NumBuckets)
	}

	// Every record formerly routed to bucket 0 by h_0 must now be found
	// by the composite addressing rule — nothing was lost in the split.
	for key := int64(0); key < k; key++ {
		if len(lh.Search(key)) != 1 {
			t.Fatalf("key %d not found after the split", key)
		}
	}
}

// Round-trip over three keys that all initially hash to the same bucket.
func TestRoundTripColliding(t *testing.T) {
	lh := New(512, 4, 0.8, logr.Discard())

	lh.Insert(record.Record{1})
	lh.Insert(record.Record{17})
	lh.Insert(record.Record{33})
	lh.Remove(17)

	if got := lh.Search(1); len(got) != 1 {
		t.Fatalf("Search(1) = %v, want one record", got)
	}
	if got := lh.Search(17); len(got) != 0 {
		t.Fatalf("Search(17) = %v, want none (removed)", got)
	}
	if lh.Statistics().NumRecords != 2 {
		t.Fatalf("NumRecords = %d, want 2", lh.Statistics().NumRecords)
	}
}

// The same round-trip driven through the CSV script loader.
func TestScriptRoundTrip(t *testing.T) {
	lh := New(512, 4, 0.8, logr.Discard())
	src := "op,v0\n+,1\n+,17\n+,33\n-,17\n?,1\n?,17\n"

	if err := script.Load(strings.NewReader(src), lh, logr.Discard()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if got := lh.Search(1); len(got) != 1 || got[0].Key() != 1 {
		t.Fatalf("Search(1) = %v, want [[1]]", got)
	}
	if got := lh.Search(17); len(got) != 0 {
		t.Fatalf("Search(17) = %v, want none", got)
	}
	if got := lh.Statistics().NumRecords; got != 2 {
		t.Fatalf("NumRecords = %d, want 2", got)
	}
}

func TestNegativeKeyAddressing(t *testing.T) {
	if got := hash(-1, 4); got < 0 || got >= 4 {
		t.Fatalf("hash(-1, 4) = %d, want a value in [0,4)", got)
	}
	if got := hash(-5, 4); got != hash(-5+4*4, 4) {
		t.Fatalf("hash is not periodic under a non-negative reduction")
	}
}

func TestRemoveAbsentKey(t *testing.T) {
	lh := New(512, 4, 0.8, logr.Discard())
	if lh.Remove(42) {
		t.Fatal("Remove of an absent key reported true")
	}
}

func TestAddressSpaceInvariant(t *testing.T) {
	lh := New(256, 4, 0.8, logr.Discard())
	for k := int64(0); k < 5000; k++ {
		lh.Insert(record.Record{k})
		if got, want := len(lh.buckets), lh.addressSpace()+lh.nextSplit; got != want {
			t.Fatalf("after %d inserts: num_buckets=%d, want addressSpace()+nextSplit=%d", k, got, want)
		}
	}
}
