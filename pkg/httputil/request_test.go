package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"schema":"x"}`))
	var dest struct {
		Schema string `json:"schema"`
	}
	require.NoError(t, ParseJSON(req, &dest))
	assert.Equal(t, "x", dest.Schema)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{broken`))
	assert.Error(t, ParseJSON(req, &dest))
}

func TestParseJSONOrErrorWritesBadRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	var dest map[string]string

	assert.False(t, ParseJSONOrError(rec, req, &dest))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParsePathParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/schemas/42", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "42", "subject": "orders-value"})

	id, err := ParsePathInt64(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	subject, err := ParsePathString(req, "subject")
	require.NoError(t, err)
	assert.Equal(t, "orders-value", subject)

	_, err = ParsePathInt64(req, "missing")
	assert.Error(t, err)
	_, err = ParsePathString(req, "missing")
	assert.Error(t, err)
}

func TestParsePathInt64Invalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/schemas/abc", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "abc"})

	rec := httptest.NewRecorder()
	_, ok := ParsePathInt64OrError(rec, req, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseQueryParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/search?q=user&limit=5", nil)

	assert.Equal(t, "user", ParseQueryString(req, "q", ""))
	assert.Equal(t, "none", ParseQueryString(req, "missing", "none"))

	limit, err := ParseQueryInt(req, "limit", 20)
	require.NoError(t, err)
	assert.Equal(t, 5, limit)

	limit, err = ParseQueryInt(req, "offset", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, limit)

	req = httptest.NewRequest(http.MethodGet, "/search?limit=x", nil)
	_, err = ParseQueryInt(req, "limit", 20)
	assert.Error(t, err)
}
