// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Overview
//
// This package offers helper functions for JSON encoding/decoding,
// error bodies in the registry's wire format, and parameter parsing.
//
// # Response Helpers
//
// JSON responses:
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteSuccess(w, resource)
//
// Error responses carry an error_code more specific than the HTTP
// status:
//
//	httputil.WriteError(w, http.StatusNotFound, 40401, "subject not found")
//	httputil.WriteBadRequest(w, "invalid input")
//
// # Request Parsing
//
// JSON parsing:
//
//	var req RegisterRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // error response already written
//	}
//
// Path parameters:
//
//	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
//	subject, ok := httputil.ParsePathStringOrError(w, r, "subject")
//
// Query parameters:
//
//	limit, err := httputil.ParseQueryInt(r, "limit", 20)
//	q := httputil.ParseQueryString(r, "q", "")
//
// # Related Packages
//
//   - pkg/middleware: request ID and logging middleware
package httputil
