package api

import (
	"net/http"
	"time"

	"github.com/axle-registry/axle/pkg/httputil"
	"github.com/axle-registry/axle/pkg/search"
)

// searchSchemas handles GET /search?q=&limit=
func (s *Server) searchSchemas(w http.ResponseWriter, r *http.Request) {
	query := httputil.ParseQueryString(r, "q", "")
	if query == "" {
		httputil.WriteBadRequest(w, "query parameter q is required")
		return
	}
	limit, err := httputil.ParseQueryInt(r, "limit", 20)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	start := time.Now()
	results := s.index.Search(query, limit)
	s.metrics.SearchQueryDuration.Observe(time.Since(start).Seconds())
	s.metrics.SearchQueriesTotal.WithLabelValues("query").Inc()

	if results == nil {
		results = []search.Result{}
	}
	httputil.WriteSuccess(w, results)
}
