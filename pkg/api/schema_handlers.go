package api

import (
	"net/http"

	"github.com/axle-registry/axle/pkg/httputil"
	"github.com/axle-registry/axle/pkg/registry"
)

func schemaResponse(record *registry.SchemaRecord) SchemaResponse {
	return SchemaResponse{
		ID:      record.ID,
		Schema:  record.Canonical,
		Dialect: record.Dialect.String(),
		Hash:    record.Hash,
	}
}

// getSchemaByID handles GET /schemas/ids/{id}
func (s *Server) getSchemaByID(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	record, err := s.registry.FindByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, schemaResponse(record))
}

// getSimilarSchemas handles GET /schemas/{id}/similar
func (s *Server) getSimilarSchemas(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	limit, err := httputil.ParseQueryInt(r, "limit", 10)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	s.metrics.SearchQueriesTotal.WithLabelValues("similar").Inc()
	results, err := s.index.Similar(id, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, results)
}
