package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsRegistersEverything(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.RegistrationsTotal.WithLabelValues("AVRO", "created").Inc()
	m.CompatibilityChecksTotal.WithLabelValues("BACKWARD", "compatible").Inc()
	m.SchemasTotal.Set(3)
	m.CacheHitsTotal.Inc()

	if got := testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("AVRO", "created")); got != 1 {
		t.Errorf("registrations counter = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SchemasTotal); got != 3 {
		t.Errorf("schemas gauge = %v, want 3", got)
	}
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	handler := HTTPMetricsMiddleware(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/subjects", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/subjects", "404")); got != 1 {
		t.Errorf("http requests counter = %v, want 1", got)
	}
}

func TestRegisterMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.SubjectsTotal.Set(2)

	mux := http.NewServeMux()
	RegisterMetricsEndpoint(mux, registry)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("metrics endpoint status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "axle_subjects_total 2") {
		t.Error("metrics output missing axle_subjects_total")
	}
}
