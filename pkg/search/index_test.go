package search_test

import (
	"context"
	"testing"

	"github.com/axle-registry/axle/pkg/registry"
	"github.com/axle-registry/axle/pkg/search"
	"github.com/axle-registry/axle/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userSchema  = `{"type":"record","name":"User","fields":[{"name":"username","type":"string"},{"name":"email","type":"string"}]}`
	adminSchema = `{"type":"record","name":"Admin","fields":[{"name":"username","type":"string"},{"name":"role","type":"string"}]}`
	orderProto  = "syntax = \"proto3\";\npackage shop;\nmessage Order { string order_id = 1; }\nservice OrderService { rpc GetOrder (Order) returns (Order); }"
)

func indexedRegistry(t *testing.T) (*registry.Registry, *search.Index) {
	t.Helper()
	r := registry.New(storage.NewMemory())
	idx := search.NewIndex()
	ctx := context.Background()
	for _, raw := range []string{userSchema, adminSchema, orderProto} {
		record, err := r.Register(ctx, raw)
		require.NoError(t, err)
		idx.Add(record)
	}
	return r, idx
}

func TestSearchRanksExactMatchFirst(t *testing.T) {
	_, idx := indexedRegistry(t)

	results := idx.Search("user", 0)
	require.NotEmpty(t, results)

	// "User" is an exact token match, "username" only a prefix match
	assert.Equal(t, "AVRO", results[0].Dialect)
	assert.Contains(t, results[0].Matched, "user")
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[0].Score)
	}
}

func TestSearchMatchesProtobufEntities(t *testing.T) {
	_, idx := indexedRegistry(t)

	results := idx.Search("orderservice", 0)
	require.Len(t, results, 1)
	assert.Equal(t, "PROTOBUF", results[0].Dialect)
}

func TestSearchLimitAndEmptyQuery(t *testing.T) {
	_, idx := indexedRegistry(t)

	assert.Nil(t, idx.Search("", 0))
	assert.Nil(t, idx.Search("   ", 5))

	results := idx.Search("username", 1)
	assert.Len(t, results, 1)
}

func TestSearchNoHits(t *testing.T) {
	_, idx := indexedRegistry(t)
	assert.Empty(t, idx.Search("zzzzz", 0))
}

func TestSimilarRanksByOverlap(t *testing.T) {
	r, idx := indexedRegistry(t)

	record, err := r.FindByHash(context.Background(), userSchema)
	require.NoError(t, err)

	results, err := idx.Similar(record.ID, 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// Admin shares the "username" token with User; the proto schema
	// shares nothing and is absent
	assert.Contains(t, results[0].Matched, "username")
	for _, result := range results {
		assert.NotEqual(t, "PROTOBUF", result.Dialect)
		assert.NotEqual(t, record.ID, result.SchemaID)
	}
}

func TestSimilarUnknownSchema(t *testing.T) {
	_, idx := indexedRegistry(t)
	_, err := idx.Similar(999, 0)
	assert.True(t, registry.IsNotFound(err))
}

func TestRebuildFromStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	r := registry.New(store)

	_, _, err := r.RegisterVersion(ctx, "users-value", userSchema)
	require.NoError(t, err)
	_, _, err = r.RegisterVersion(ctx, "orders-value", orderProto)
	require.NoError(t, err)

	// a deleted version drops out of the rebuilt index
	_, _, err = r.RegisterVersion(ctx, "admins-value", adminSchema)
	require.NoError(t, err)
	_, err = r.DeleteSubject(ctx, "admins-value")
	require.NoError(t, err)

	idx := search.NewIndex()
	require.NoError(t, idx.Rebuild(ctx, store))
	assert.Equal(t, 2, idx.Len())
	assert.Empty(t, idx.Search("admin", 0))
}

func TestAddIsIdempotent(t *testing.T) {
	r, idx := indexedRegistry(t)

	record, err := r.FindByHash(context.Background(), userSchema)
	require.NoError(t, err)
	before := idx.Len()
	idx.Add(record)
	assert.Equal(t, before, idx.Len())
}
