// Package api exposes the registry over HTTP.
//
// # Overview
//
// The server wires the registry façade, the search index and the
// observability stack behind a gorilla/mux router. Bodies are JSON;
// errors carry a structured {error_code, message} payload whose code
// is more specific than the HTTP status.
//
// # Route Groups
//
//   - /schemas: fetch registered schemas by id, find similar schemas
//   - /subjects: subject and version lifecycle
//   - /config: global and per-subject compatibility levels
//   - /compatibility: dry-run compatibility checks
//   - /groups, /tags: schema grouping and annotation
//   - /search: free-text entity search
//
// # Usage
//
//	server := api.NewServer(reg, index, logger, metrics)
//	http.ListenAndServe(":8081", server)
package api
