// Package indexapi defines the contract both index engines satisfy.
// Insert and Remove report success as a bool rather than an error —
// duplicate-key rejection and absent-key removal are expected outcomes,
// not failures — and Search returns every matching record instead of a
// single value, since the B-tree permits duplicate keys.
package indexapi

import "github.com/btree-query-bench/pageindex/internal/record"

// Engine is the contract common to the B-tree and Linear Hashing engines.
type Engine interface {
	Insert(rec record.Record) bool
	Remove(key int64) bool
	Search(key int64) []record.Record
}

// RangeSearcher is satisfied only by the B-tree; a hash table has no
// key order to scan.
type RangeSearcher interface {
	RangeSearch(lo, hi int64) []record.Record
}

// ScriptTarget is the minimal surface the CSV script loader needs against
// either engine.
type ScriptTarget interface {
	Insert(rec record.Record) bool
	Remove(key int64) bool
	Search(key int64) []record.Record
}
