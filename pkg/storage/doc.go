// Package storage provides implementations of the registry.Store
// interface.
//
// # Backends
//
// Three backends are available:
//
//   - Memory: a mutex-guarded in-memory store for development and tests
//   - SQLStore: a database/sql implementation supporting PostgreSQL
//     (lib/pq) and SQLite (mattn/go-sqlite3), one transaction per
//     mutating call
//   - CachedStore: a read-through cache for immutable schema records,
//     layering an in-process LRU and an optional Redis tier over any
//     other Store
//
// All backends map absent rows to registry.NotFoundError and surface
// I/O errors unmodified; the core never retries.
//
// # Usage Example
//
// Open a SQLite-backed store with caching:
//
//	inner, err := storage.NewSQLite("/var/axle/axle.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	store, err := storage.NewCached(inner, 1024, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
// # Related Packages
//
//   - pkg/registry: defines the Store interface this package implements
//   - pkg/config: selects and configures the backend
package storage
