// Package middleware provides the HTTP middleware chain used by the
// registry server: request ID assignment, structured request logging
// and panic recovery.
//
// Typical wiring:
//
//	handler := middleware.Chain(
//		middleware.RequestID,
//		middleware.Logging(logger),
//		middleware.Recovery(logger),
//	)(router)
package middleware
