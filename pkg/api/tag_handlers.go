package api

import (
	"net/http"

	"github.com/axle-registry/axle/pkg/httputil"
)

// getTags handles GET /tags/schemas/{id}
func (s *Server) getTags(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	tags, err := s.registry.Tags(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, tags)
}

// getTag handles GET /tags/schemas/{id}/{key}
func (s *Server) getTag(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	key, ok := httputil.ParsePathStringOrError(w, r, "key")
	if !ok {
		return
	}

	value, err := s.registry.Tag(r.Context(), id, key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, TagResponse{Key: key, Value: value})
}

// setTag handles POST /tags/schemas/{id}/{key}
func (s *Server) setTag(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	key, ok := httputil.ParsePathStringOrError(w, r, "key")
	if !ok {
		return
	}
	var req TagRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if err := s.registry.SetTag(r.Context(), id, key, req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, TagResponse{Key: key, Value: req.Value})
}

// deleteTag handles DELETE /tags/schemas/{id}/{key}
func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}
	key, ok := httputil.ParsePathStringOrError(w, r, "key")
	if !ok {
		return
	}

	if err := s.registry.DeleteTag(r.Context(), id, key); err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}
