package storage

import (
	"context"
	"time"

	"github.com/axle-registry/axle/pkg/observability"
	"github.com/axle-registry/axle/pkg/registry"
)

// InstrumentedStore records operation counts and latencies for the hot
// schema and subject paths of any Store. Tag and group operations pass
// through uninstrumented.
type InstrumentedStore struct {
	registry.Store
	metrics *observability.Metrics
	backend string
}

// NewInstrumented wraps inner, labeling every sample with the backend
// name (memory, sqlite or postgres).
func NewInstrumented(inner registry.Store, metrics *observability.Metrics, backend string) *InstrumentedStore {
	return &InstrumentedStore{
		Store:   inner,
		metrics: metrics,
		backend: backend,
	}
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.StorageOperationsTotal.WithLabelValues(op, s.backend, status).Inc()
	s.metrics.StorageOperationDuration.WithLabelValues(op, s.backend).Observe(time.Since(start).Seconds())
}

func (s *InstrumentedStore) CreateSchema(ctx context.Context, record *registry.SchemaRecord) error {
	start := time.Now()
	err := s.Store.CreateSchema(ctx, record)
	s.observe("create_schema", start, err)
	return err
}

func (s *InstrumentedStore) GetSchemaByID(ctx context.Context, id int64) (*registry.SchemaRecord, error) {
	start := time.Now()
	record, err := s.Store.GetSchemaByID(ctx, id)
	s.observe("get_schema_by_id", start, err)
	return record, err
}

func (s *InstrumentedStore) GetSchemaByHash(ctx context.Context, hash string) (*registry.SchemaRecord, error) {
	start := time.Now()
	record, err := s.Store.GetSchemaByHash(ctx, hash)
	s.observe("get_schema_by_hash", start, err)
	return record, err
}

func (s *InstrumentedStore) GetSubject(ctx context.Context, name string) (*registry.Subject, error) {
	start := time.Now()
	subject, err := s.Store.GetSubject(ctx, name)
	s.observe("get_subject", start, err)
	return subject, err
}

func (s *InstrumentedStore) PutSubject(ctx context.Context, subject *registry.Subject) error {
	start := time.Now()
	err := s.Store.PutSubject(ctx, subject)
	s.observe("put_subject", start, err)
	return err
}

func (s *InstrumentedStore) ListSubjects(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := s.Store.ListSubjects(ctx)
	s.observe("list_subjects", start, err)
	return names, err
}
