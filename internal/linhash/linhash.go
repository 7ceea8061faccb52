// Package linhash implements a Linear Hashing index engine: dual-hash
// addressing with a next-split pointer that promotes addresses from h_d
// to h_{d+1} one bucket at a time, controlled by a table-wide load-factor
// check rather than a per-bucket overflow trigger. The table only ever
// grows; a bucket that overflows before its turn to split chains into
// overflow pages instead.
package linhash

import (
	"github.com/go-logr/logr"

	"github.com/btree-query-bench/pageindex/internal/page"
	"github.com/btree-query-bench/pageindex/internal/record"
)

// nominalRecordSize approximates a two-attribute record's serialized
// size, used only to derive the fixed records-per-page constant. That
// constant is computed once at construction and never revisited —
// deriving it from live record sizes would make the split trigger
// non-monotone.
const nominalRecordSize = 24 + 8*2

// Statistics reports the engine's table-wide counters.
type Statistics struct {
	NumBuckets    int
	NumRecords    int
	Level         int
	NextSplit     int
	NumSplits     int
	OverflowPages int
	// BucketOverflow holds each bucket chain's overflow-page count, in
	// bucket-index order.
	BucketOverflow []int
	MeanOccupancy  float64
}

// LinearHash is the engine. It satisfies indexapi.Engine (no
// RangeSearcher — range scans over the hash index are a non-goal).
type LinearHash struct {
	budget      page.Budget
	initial     int // N0, the initial bucket count
	utilization float64
	capacity    int // C, fixed records-per-page constant

	buckets   []*bucket
	level     int // d
	nextSplit int // sp
	numRecs   int
	numSplits int

	log logr.Logger
}

// New returns an empty Linear Hashing engine. budget is the page size
// (minimum page.MinSize); initialBuckets (N0) must be a power of two
// >= 1; utilization must be in (0, 1]. New returns no error: a budget
// below page.MinSize is raised to it, an initialBuckets below 1 becomes 1,
// and a utilization outside (0, 1] becomes 0.8. A non-power-of-two
// initialBuckets is used as given. Callers wanting an error surface
// validate before calling New.
func New(budget, initialBuckets int, utilization float64, log logr.Logger) *LinearHash {
	if budget < page.MinSize {
		budget = page.MinSize
	}
	if initialBuckets < 1 {
		initialBuckets = 1
	}
	if utilization <= 0 || utilization > 1 {
		utilization = 0.8
	}

	capacity := budget / nominalRecordSize
	if capacity < 1 {
		capacity = 1
	}

	lh := &LinearHash{
		budget:      page.Budget(budget),
		initial:     initialBuckets,
		utilization: utilization,
		capacity:    capacity,
		buckets:     make([]*bucket, initialBuckets),
		log:         log,
	}
	for i := range lh.buckets {
		lh.buckets[i] = newBucket(lh.budget)
	}
	return lh
}

// addressSpace returns 2^d * N0, the number of addresses h_d currently
// serves.
func (lh *LinearHash) addressSpace() int {
	return (1 << uint(lh.level)) * lh.initial
}

// hash computes key mod m with a non-negative result, so negative keys
// address a real bucket.
func hash(key int64, m int) int {
	r := key % int64(m)
	if r < 0 {
		r += int64(m)
	}
	return int(r)
}

// bucketIndex applies the composite h_d / h_{d+1} addressing rule.
func (lh *LinearHash) bucketIndex(key int64) int {
	i := hash(key, lh.addressSpace())
	if i < lh.nextSplit {
		i = hash(key, lh.addressSpace()*2)
	}
	return i
}

// Insert adds rec, rejecting a table-wide duplicate key. Reports whether
// the insert succeeded. The table takes its own copy of rec, so callers
// may reuse the slice.
func (lh *LinearHash) Insert(rec record.Record) bool {
	i := lh.bucketIndex(rec.Key())
	if !lh.buckets[i].insert(rec.Clone()) {
		lh.log.V(1).Info("duplicate key rejected", "key", rec.Key(), "bucket", i)
		return false
	}
	lh.numRecs++
	if lh.needSplit() {
		lh.split()
	}
	return true
}

// needSplit evaluates the load-factor rule: num_records / num_buckets >=
// U * C.
func (lh *LinearHash) needSplit() bool {
	return float64(lh.numRecs)/float64(len(lh.buckets)) >= lh.utilization*float64(lh.capacity)
}

// split performs exactly one controlled split of the bucket at sp,
// draining and rehashing its records with h_{d+1} across old and new,
// then advancing sp (and rolling d over at the end of a round).
func (lh *LinearHash) split() {
	old := lh.nextSplit
	newIdx := lh.nextSplit + lh.addressSpace()

	lh.buckets = append(lh.buckets, newBucket(lh.budget))

	drained := lh.buckets[old].allRecords()
	lh.buckets[old].clear()

	nextSpace := lh.addressSpace() * 2
	for _, r := range drained {
		idx := hash(r.Key(), nextSpace)
		lh.buckets[idx].insertUnchecked(r)
	}

	lh.nextSplit++
	if lh.nextSplit == lh.addressSpace() {
		lh.level++
		lh.nextSplit = 0
	}
	lh.numSplits++
	lh.log.Info("bucket split", "old", old, "new", newIdx, "level", lh.level, "next_split", lh.nextSplit)
}

// Remove deletes the record matching key, reporting whether one was
// found. The table never merges nor shrinks on removal.
func (lh *LinearHash) Remove(key int64) bool {
	i := lh.bucketIndex(key)
	ok := lh.buckets[i].remove(key)
	if ok {
		lh.numRecs--
	}
	return ok
}

// Search returns the (at most one, by duplicate rejection) record
// matching key.
func (lh *LinearHash) Search(key int64) []record.Record {
	i := lh.bucketIndex(key)
	return lh.buckets[i].search(key)
}

// Statistics reports the table-wide counters, walking every bucket chain
// once for overflow-page and mean-occupancy figures.
func (lh *LinearHash) Statistics() Statistics {
	s := Statistics{
		NumBuckets: len(lh.buckets),
		NumRecords: lh.numRecs,
		Level:      lh.level,
		NextSplit:  lh.nextSplit,
		NumSplits:  lh.numSplits,
	}
	s.BucketOverflow = make([]int, len(lh.buckets))
	for i, b := range lh.buckets {
		s.BucketOverflow[i] = b.overflowPageCount()
		s.OverflowPages += s.BucketOverflow[i]
	}
	if s.NumBuckets > 0 {
		s.MeanOccupancy = float64(s.NumRecords) / float64(s.NumBuckets)
	}
	return s
}
