// Package search maintains an in-memory token index over the named
// entities of registered schemas (record and message names, fields,
// enums, services) and answers free-text and similarity queries.
//
// The index is fed incrementally as schemas are registered and can be
// rebuilt from a store after a restart:
//
//	idx := search.NewIndex()
//	idx.Add(record)
//	results := idx.Search("user", 10)
//
// Schema records are immutable, so indexed entries are never updated
// or evicted.
package search
