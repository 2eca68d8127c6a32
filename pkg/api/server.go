package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/axle-registry/axle/pkg/observability"
	"github.com/axle-registry/axle/pkg/registry"
	"github.com/axle-registry/axle/pkg/search"
)

// Server represents our API server
type Server struct {
	registry *registry.Registry
	index    *search.Index
	router   *mux.Router
	logger   *observability.Logger
	metrics  *observability.Metrics
}

// NewServer creates a new API server
func NewServer(reg *registry.Registry, index *search.Index, logger *observability.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		registry: reg,
		index:    index,
		router:   mux.NewRouter(),
		logger:   logger,
		metrics:  metrics,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	// Schema routes
	s.router.HandleFunc("/schemas/ids/{id}", s.getSchemaByID).Methods("GET")
	s.router.HandleFunc("/schemas/{id}/similar", s.getSimilarSchemas).Methods("GET")

	// Subject routes
	s.router.HandleFunc("/subjects", s.listSubjects).Methods("GET")
	s.router.HandleFunc("/subjects/{subject}", s.lookUpSchemaUnderSubject).Methods("POST")
	s.router.HandleFunc("/subjects/{subject}", s.deleteSubject).Methods("DELETE")
	s.router.HandleFunc("/subjects/{subject}/versions", s.listVersions).Methods("GET")
	s.router.HandleFunc("/subjects/{subject}/versions", s.registerVersion).Methods("POST")
	s.router.HandleFunc("/subjects/{subject}/versions/{version}", s.getVersion).Methods("GET")
	s.router.HandleFunc("/subjects/{subject}/versions/{version}", s.deleteVersion).Methods("DELETE")

	// Config routes
	s.router.HandleFunc("/config", s.getGlobalConfig).Methods("GET")
	s.router.HandleFunc("/config", s.putGlobalConfig).Methods("PUT")
	s.router.HandleFunc("/config/{subject}", s.getSubjectConfig).Methods("GET")
	s.router.HandleFunc("/config/{subject}", s.putSubjectConfig).Methods("PUT")

	// Compatibility routes
	s.router.HandleFunc("/compatibility/subjects/{subject}/versions/{version}", s.checkCompatibility).Methods("POST")

	// Group routes
	s.router.HandleFunc("/groups", s.createGroup).Methods("POST")
	s.router.HandleFunc("/groups/{id}", s.getGroup).Methods("GET")
	s.router.HandleFunc("/groups/{id}/{schemaId}", s.addGroupMember).Methods("PUT")
	s.router.HandleFunc("/groups/{id}/{schemaId}", s.removeGroupMember).Methods("DELETE")

	// Tag routes
	s.router.HandleFunc("/tags/schemas/{id}", s.getTags).Methods("GET")
	s.router.HandleFunc("/tags/schemas/{id}/{key}", s.getTag).Methods("GET")
	s.router.HandleFunc("/tags/schemas/{id}/{key}", s.setTag).Methods("POST")
	s.router.HandleFunc("/tags/schemas/{id}/{key}", s.deleteTag).Methods("DELETE")

	// Search routes
	s.router.HandleFunc("/search", s.searchSchemas).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
