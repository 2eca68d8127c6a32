package api

import (
	"errors"
	"net/http"

	"github.com/axle-registry/axle/pkg/dialect"
	"github.com/axle-registry/axle/pkg/httputil"
	"github.com/axle-registry/axle/pkg/registry"
)

// Registry error codes, more specific than the HTTP status they ride
// on.
const (
	codeSubjectNotFound = 40401
	codeVersionNotFound = 40402
	codeSchemaNotFound  = 40403
	codeTagNotFound     = 40405
	codeGroupNotFound   = 40406
	codeInvalidSchema   = 42201
	codeInvalidLevel    = 42203
	codeStorageFailure  = 50001
)

func notFoundCode(kind string) int {
	switch kind {
	case "subject":
		return codeSubjectNotFound
	case "version":
		return codeVersionNotFound
	case "schema":
		return codeSchemaNotFound
	case "tag":
		return codeTagNotFound
	case "group":
		return codeGroupNotFound
	default:
		return http.StatusNotFound
	}
}

// writeError maps a domain error to the wire: unparseable schemas and
// bad level tokens are 422, missing entities 404, everything else is a
// storage failure.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var parseErr *dialect.ParseError
	var notFound *registry.NotFoundError
	var invalidConfig *registry.InvalidConfigError

	switch {
	case errors.As(err, &parseErr):
		httputil.WriteError(w, http.StatusUnprocessableEntity, codeInvalidSchema, parseErr.Error())
	case errors.As(err, &notFound):
		httputil.WriteError(w, http.StatusNotFound, notFoundCode(notFound.Kind), notFound.Error())
	case errors.As(err, &invalidConfig):
		httputil.WriteError(w, http.StatusUnprocessableEntity, codeInvalidLevel, invalidConfig.Error())
	default:
		s.logger.WithError(err).Error("request failed")
		httputil.WriteInternalError(w, codeStorageFailure, err)
	}
}
