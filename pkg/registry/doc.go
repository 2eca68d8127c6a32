// Package registry implements the core of the schema registry: the
// content-addressed schema store, subject version bookkeeping with
// tombstoned deletes, and the compatibility engine.
//
// Schema records are immutable and deduplicated by a SHA-256 hash of
// their canonical form. A subject holds an append-only list of version
// slots; deleting a version tombstones its slot so that surviving
// version numbers never shift. Compatibility checks resolve the
// subject's effective level (override, then global default, then NONE)
// and delegate to the dialect of the latest registered schema.
//
// All state lives behind the Store interface; implementations are
// provided by pkg/storage.
package registry
