package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axle-registry/axle/pkg/httputil"
	"github.com/axle-registry/axle/pkg/observability"
	"github.com/axle-registry/axle/pkg/registry"
	"github.com/axle-registry/axle/pkg/search"
	"github.com/axle-registry/axle/pkg/storage"
)

const (
	userV1 = `{"type":"record","name":"User","fields":[{"name":"username","type":"string"}]}`
	userV2 = `{"type":"record","name":"User","fields":[{"name":"username","type":"string"},{"name":"email","type":"string","default":"none"}]}`
	// adds a field without a default, breaks BACKWARD
	userBad = `{"type":"record","name":"User","fields":[{"name":"username","type":"string"},{"name":"age","type":"int"}]}`
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	return NewServer(registry.New(storage.NewMemory()), search.NewIndex(), logger, metrics)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func registerSchema(t *testing.T, srv *Server, subject, schema string) RegisterResponse {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/subjects/"+subject+"/versions", SchemaRequest{Schema: schema})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp RegisterResponse
	decodeInto(t, rec, &resp)
	return resp
}

func TestRegisterAndFetchVersion(t *testing.T) {
	srv := newTestServer(t)

	resp := registerSchema(t, srv, "user-value", userV1)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, 1, resp.Version)

	// registering the same body again is a no-op
	again := registerSchema(t, srv, "user-value", userV1)
	assert.Equal(t, resp, again)

	rec := doJSON(t, srv, http.MethodGet, "/subjects/user-value/versions/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var version VersionResponse
	decodeInto(t, rec, &version)
	assert.Equal(t, "user-value", version.Subject)
	assert.Equal(t, 1, version.Version)
	assert.Equal(t, int64(1), version.ID)
	assert.Equal(t, "AVRO", version.Dialect)

	rec = doJSON(t, srv, http.MethodGet, "/schemas/ids/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var schema SchemaResponse
	decodeInto(t, rec, &schema)
	assert.Equal(t, int64(1), schema.ID)
	assert.NotEmpty(t, schema.Hash)
}

func TestRegisterRejectsUnparseableSchema(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/subjects/user-value/versions", SchemaRequest{Schema: "{{{"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var errResp httputil.ErrorResponse
	decodeInto(t, rec, &errResp)
	assert.Equal(t, codeInvalidSchema, errResp.ErrorCode)
}

func TestNotFoundCodes(t *testing.T) {
	srv := newTestServer(t)
	registerSchema(t, srv, "user-value", userV1)

	tests := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodGet, "/subjects/missing/versions", codeSubjectNotFound},
		{http.MethodGet, "/subjects/user-value/versions/5", codeVersionNotFound},
		{http.MethodGet, "/schemas/ids/99", codeSchemaNotFound},
		{http.MethodGet, "/tags/schemas/1/missing", codeTagNotFound},
		{http.MethodGet, "/groups/99", codeGroupNotFound},
		{http.MethodGet, "/config/missing", codeSubjectNotFound},
	}
	for _, tt := range tests {
		rec := doJSON(t, srv, tt.method, tt.path, nil)
		require.Equal(t, http.StatusNotFound, rec.Code, tt.path)
		var errResp httputil.ErrorResponse
		decodeInto(t, rec, &errResp)
		assert.Equal(t, tt.code, errResp.ErrorCode, tt.path)
	}
}

func TestListSubjectsAndVersions(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/subjects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var subjects []string
	decodeInto(t, rec, &subjects)
	assert.Empty(t, subjects)

	registerSchema(t, srv, "order-value", userV1)
	registerSchema(t, srv, "user-value", userV1)
	registerSchema(t, srv, "user-value", userV2)

	rec = doJSON(t, srv, http.MethodGet, "/subjects", nil)
	decodeInto(t, rec, &subjects)
	assert.Equal(t, []string{"order-value", "user-value"}, subjects)

	rec = doJSON(t, srv, http.MethodGet, "/subjects/user-value/versions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var versions []int
	decodeInto(t, rec, &versions)
	assert.Equal(t, []int{1, 2}, versions)
}

func TestLookUpSchemaUnderSubject(t *testing.T) {
	srv := newTestServer(t)
	registerSchema(t, srv, "user-value", userV1)
	registerSchema(t, srv, "user-value", userV2)

	rec := doJSON(t, srv, http.MethodPost, "/subjects/user-value", SchemaRequest{Schema: userV2})
	require.Equal(t, http.StatusOK, rec.Code)
	var version VersionResponse
	decodeInto(t, rec, &version)
	assert.Equal(t, 2, version.Version)

	// registered nowhere
	rec = doJSON(t, srv, http.MethodPost, "/subjects/user-value", SchemaRequest{Schema: userBad})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteVersionAndSubject(t *testing.T) {
	srv := newTestServer(t)
	registerSchema(t, srv, "user-value", userV1)
	registerSchema(t, srv, "user-value", userV2)

	rec := doJSON(t, srv, http.MethodDelete, "/subjects/user-value/versions/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted int
	decodeInto(t, rec, &deleted)
	assert.Equal(t, 1, deleted)

	// not idempotent
	rec = doJSON(t, srv, http.MethodDelete, "/subjects/user-value/versions/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/subjects/user-value", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var versions []int
	decodeInto(t, rec, &versions)
	assert.Equal(t, []int{2}, versions)

	rec = doJSON(t, srv, http.MethodGet, "/subjects/user-value/versions", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfigEndpoints(t *testing.T) {
	srv := newTestServer(t)
	registerSchema(t, srv, "user-value", userV1)

	// GET responds with compatibilityLevel, PUT echoes compatibility
	rec := doJSON(t, srv, http.MethodGet, "/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var level ConfigLevelResponse
	decodeInto(t, rec, &level)
	assert.Equal(t, "NONE", level.CompatibilityLevel)
	assert.Contains(t, rec.Body.String(), `"compatibilityLevel"`)

	rec = doJSON(t, srv, http.MethodPut, "/config", ConfigRequest{Compatibility: "BACKWARD"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"compatibility"`)

	rec = doJSON(t, srv, http.MethodGet, "/config", nil)
	decodeInto(t, rec, &level)
	assert.Equal(t, "BACKWARD", level.CompatibilityLevel)

	// a subject without an override resolves to the global default
	rec = doJSON(t, srv, http.MethodGet, "/config/user-value", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &level)
	assert.Equal(t, "BACKWARD", level.CompatibilityLevel)

	rec = doJSON(t, srv, http.MethodPut, "/config/user-value", ConfigRequest{Compatibility: "FULL"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/config/user-value", nil)
	decodeInto(t, rec, &level)
	assert.Equal(t, "FULL", level.CompatibilityLevel)
}

func TestConfigRejectsUnknownLevel(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/config", ConfigRequest{Compatibility: "SIDEWAYS"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var errResp httputil.ErrorResponse
	decodeInto(t, rec, &errResp)
	assert.Equal(t, codeInvalidLevel, errResp.ErrorCode)
}

func TestCheckCompatibility(t *testing.T) {
	srv := newTestServer(t)
	registerSchema(t, srv, "user-value", userV1)
	rec := doJSON(t, srv, http.MethodPut, "/config/user-value", ConfigRequest{Compatibility: "BACKWARD"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/compatibility/subjects/user-value/versions/latest", SchemaRequest{Schema: userV2})
	require.Equal(t, http.StatusOK, rec.Code)
	var result CompatibilityResponse
	decodeInto(t, rec, &result)
	assert.True(t, result.IsCompatible)

	rec = doJSON(t, srv, http.MethodPost, "/compatibility/subjects/user-value/versions/latest", SchemaRequest{Schema: userBad})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &result)
	assert.False(t, result.IsCompatible)
}

func TestGroupEndpoints(t *testing.T) {
	srv := newTestServer(t)
	first := registerSchema(t, srv, "user-value", userV1)
	second := registerSchema(t, srv, "user-value", userV2)

	rec := doJSON(t, srv, http.MethodPost, "/groups", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var group GroupResponse
	decodeInto(t, rec, &group)
	assert.Equal(t, int64(1), group.ID)
	assert.Empty(t, group.Schemas)

	for _, id := range []int64{second.ID, first.ID} {
		rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/groups/1/%d", id), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/groups/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &group)
	assert.Equal(t, []int64{first.ID, second.ID}, group.Schemas)

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/groups/1/%d", first.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/groups/1", nil)
	decodeInto(t, rec, &group)
	assert.Equal(t, []int64{second.ID}, group.Schemas)

	// unknown schema cannot join
	rec = doJSON(t, srv, http.MethodPut, "/groups/1/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTagEndpoints(t *testing.T) {
	srv := newTestServer(t)
	registerSchema(t, srv, "user-value", userV1)

	rec := doJSON(t, srv, http.MethodPost, "/tags/schemas/1/owner", TagRequest{Value: "payments"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/tags/schemas/1/owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tag TagResponse
	decodeInto(t, rec, &tag)
	assert.Equal(t, TagResponse{Key: "owner", Value: "payments"}, tag)

	rec = doJSON(t, srv, http.MethodGet, "/tags/schemas/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tags map[string]string
	decodeInto(t, rec, &tags)
	assert.Equal(t, map[string]string{"owner": "payments"}, tags)

	rec = doJSON(t, srv, http.MethodDelete, "/tags/schemas/1/owner", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/tags/schemas/1/owner", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t)
	registerSchema(t, srv, "user-value", userV1)

	rec := doJSON(t, srv, http.MethodGet, "/search?q=username", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []search.Result
	decodeInto(t, rec, &results)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].SchemaID)

	rec = doJSON(t, srv, http.MethodGet, "/search?q=nonexistenttoken", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeInto(t, rec, &results)
	assert.Empty(t, results)

	rec = doJSON(t, srv, http.MethodGet, "/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimilarEndpoint(t *testing.T) {
	srv := newTestServer(t)
	first := registerSchema(t, srv, "user-value", userV1)
	registerSchema(t, srv, "user-value", userV2)

	rec := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/schemas/%d/similar", first.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []search.Result
	decodeInto(t, rec, &results)
	require.NotEmpty(t, results)
	assert.NotEqual(t, first.ID, results[0].SchemaID)

	rec = doJSON(t, srv, http.MethodGet, "/schemas/99/similar", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
