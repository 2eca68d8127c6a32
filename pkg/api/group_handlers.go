package api

import (
	"net/http"

	"github.com/axle-registry/axle/pkg/httputil"
)

// createGroup handles POST /groups
func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	id, err := s.registry.CreateGroup(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, GroupResponse{ID: id, Schemas: []int64{}})
}

// getGroup handles GET /groups/{id}
func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	members, err := s.registry.Group(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if members == nil {
		members = []int64{}
	}
	httputil.WriteSuccess(w, GroupResponse{ID: id, Schemas: members})
}

// addGroupMember handles PUT /groups/{id}/{schemaId}
func (s *Server) addGroupMember(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	schemaID, ok := httputil.ParsePathInt64OrError(w, r, "schemaId")
	if !ok {
		return
	}

	if err := s.registry.AddToGroup(r.Context(), id, schemaID); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// removeGroupMember handles DELETE /groups/{id}/{schemaId}
func (s *Server) removeGroupMember(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	schemaID, ok := httputil.ParsePathInt64OrError(w, r, "schemaId")
	if !ok {
		return
	}

	if err := s.registry.RemoveFromGroup(r.Context(), id, schemaID); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
