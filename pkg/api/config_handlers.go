package api

import (
	"net/http"

	"github.com/axle-registry/axle/pkg/httputil"
)

// getGlobalConfig handles GET /config
func (s *Server) getGlobalConfig(w http.ResponseWriter, r *http.Request) {
	token, err := s.registry.GetCompatibility(r.Context(), "")
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, ConfigLevelResponse{CompatibilityLevel: token})
}

// putGlobalConfig handles PUT /config
func (s *Server) putGlobalConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if err := s.registry.SetCompatibility(r.Context(), "", req.Compatibility); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, req)
}

// getSubjectConfig handles GET /config/{subject}
func (s *Server) getSubjectConfig(w http.ResponseWriter, r *http.Request) {
	subject, ok := httputil.ParsePathStringOrError(w, r, "subject")
	if !ok {
		return
	}
	token, err := s.registry.GetCompatibility(r.Context(), subject)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, ConfigLevelResponse{CompatibilityLevel: token})
}

// putSubjectConfig handles PUT /config/{subject}
func (s *Server) putSubjectConfig(w http.ResponseWriter, r *http.Request) {
	subject, ok := httputil.ParsePathStringOrError(w, r, "subject")
	if !ok {
		return
	}
	var req ConfigRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if err := s.registry.SetCompatibility(r.Context(), subject, req.Compatibility); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, req)
}
