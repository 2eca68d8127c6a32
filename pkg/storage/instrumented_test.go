package storage

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axle-registry/axle/pkg/observability"
)

func TestInstrumentedStoreCountsOperations(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	store := NewInstrumented(NewMemory(), metrics, "memory")

	record := newRecord("hash-a")
	require.NoError(t, store.CreateSchema(ctx, record))

	_, err := store.GetSchemaByID(ctx, record.ID)
	require.NoError(t, err)
	_, err = store.GetSchemaByID(ctx, 999)
	require.Error(t, err)

	success := metrics.StorageOperationsTotal.WithLabelValues("get_schema_by_id", "memory", "success")
	assert.Equal(t, float64(1), testutil.ToFloat64(success))
	failure := metrics.StorageOperationsTotal.WithLabelValues("get_schema_by_id", "memory", "error")
	assert.Equal(t, float64(1), testutil.ToFloat64(failure))
	creates := metrics.StorageOperationsTotal.WithLabelValues("create_schema", "memory", "success")
	assert.Equal(t, float64(1), testutil.ToFloat64(creates))
}

func TestInstrumentedStorePassesThrough(t *testing.T) {
	ctx := context.Background()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	store := NewInstrumented(NewMemory(), metrics, "memory")

	record := newRecord("hash-b")
	require.NoError(t, store.CreateSchema(ctx, record))
	require.NoError(t, store.SetTag(ctx, record.ID, "owner", "payments"))

	tags, err := store.GetTags(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "payments", tags["owner"])
}
