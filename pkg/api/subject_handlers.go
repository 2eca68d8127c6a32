package api

import (
	"net/http"

	"github.com/axle-registry/axle/pkg/httputil"
)

// listSubjects handles GET /subjects
func (s *Server) listSubjects(w http.ResponseWriter, r *http.Request) {
	names, err := s.registry.ListSubjects(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	httputil.WriteSuccess(w, names)
}

// lookUpSchemaUnderSubject handles POST /subjects/{subject}. It
// answers whether the posted schema is already registered under the
// subject, without registering anything.
func (s *Server) lookUpSchemaUnderSubject(w http.ResponseWriter, r *http.Request) {
	subject, ok := httputil.ParsePathStringOrError(w, r, "subject")
	if !ok {
		return
	}
	var req SchemaRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	record, version, err := s.registry.SchemaInSubject(r.Context(), subject, req.Schema)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, VersionResponse{
		Subject: subject,
		Version: version,
		ID:      record.ID,
		Schema:  record.Canonical,
		Dialect: record.Dialect.String(),
	})
}

// listVersions handles GET /subjects/{subject}/versions
func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	subject, ok := httputil.ParsePathStringOrError(w, r, "subject")
	if !ok {
		return
	}

	versions, err := s.registry.ListVersions(r.Context(), subject)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, versions)
}

// registerVersion handles POST /subjects/{subject}/versions
func (s *Server) registerVersion(w http.ResponseWriter, r *http.Request) {
	subject, ok := httputil.ParsePathStringOrError(w, r, "subject")
	if !ok {
		return
	}
	var req SchemaRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	record, version, err := s.registry.RegisterVersion(r.Context(), subject, req.Schema)
	if err != nil {
		s.metrics.RegistrationsTotal.WithLabelValues("unknown", "error").Inc()
		s.writeError(w, err)
		return
	}
	s.metrics.RegistrationsTotal.WithLabelValues(record.Dialect.String(), "success").Inc()
	s.index.Add(record)
	s.metrics.SchemasTotal.Set(float64(s.index.Len()))
	if version == 1 {
		s.metrics.SubjectsTotal.Inc()
	}

	httputil.WriteSuccess(w, RegisterResponse{ID: record.ID, Version: version})
}

// getVersion handles GET /subjects/{subject}/versions/{version}
func (s *Server) getVersion(w http.ResponseWriter, r *http.Request) {
	subject, ok := httputil.ParsePathStringOrError(w, r, "subject")
	if !ok {
		return
	}
	versionSpec, ok := httputil.ParsePathStringOrError(w, r, "version")
	if !ok {
		return
	}

	record, version, err := s.registry.ResolveVersion(r.Context(), subject, versionSpec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, VersionResponse{
		Subject: subject,
		Version: version,
		ID:      record.ID,
		Schema:  record.Canonical,
		Dialect: record.Dialect.String(),
	})
}

// deleteVersion handles DELETE /subjects/{subject}/versions/{version}
func (s *Server) deleteVersion(w http.ResponseWriter, r *http.Request) {
	subject, ok := httputil.ParsePathStringOrError(w, r, "subject")
	if !ok {
		return
	}
	versionSpec, ok := httputil.ParsePathStringOrError(w, r, "version")
	if !ok {
		return
	}

	version, err := s.registry.DeleteVersion(r.Context(), subject, versionSpec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, version)
}

// deleteSubject handles DELETE /subjects/{subject}
func (s *Server) deleteSubject(w http.ResponseWriter, r *http.Request) {
	subject, ok := httputil.ParsePathStringOrError(w, r, "subject")
	if !ok {
		return
	}

	versions, err := s.registry.DeleteSubject(r.Context(), subject)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.metrics.SubjectsTotal.Dec()
	httputil.WriteSuccess(w, versions)
}
