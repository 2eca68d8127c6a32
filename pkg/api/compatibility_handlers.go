package api

import (
	"net/http"
	"time"

	"github.com/axle-registry/axle/pkg/httputil"
)

// checkCompatibility handles POST /compatibility/subjects/{subject}/versions/{version}.
// The check runs against the subject's full live history at its
// effective level, so the version segment (normally "latest") only
// names the endpoint shape.
func (s *Server) checkCompatibility(w http.ResponseWriter, r *http.Request) {
	subject, ok := httputil.ParsePathStringOrError(w, r, "subject")
	if !ok {
		return
	}
	var req SchemaRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	level, err := s.registry.EffectiveLevel(r.Context(), subject)
	if err != nil {
		s.writeError(w, err)
		return
	}

	start := time.Now()
	compatible, err := s.registry.CheckCompatibility(r.Context(), subject, req.Schema)
	s.metrics.CompatibilityDuration.WithLabelValues(level.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		s.writeError(w, err)
		return
	}

	result := "compatible"
	if !compatible {
		result = "incompatible"
	}
	s.metrics.CompatibilityChecksTotal.WithLabelValues(level.String(), result).Inc()

	httputil.WriteSuccess(w, CompatibilityResponse{IsCompatible: compatible})
}
