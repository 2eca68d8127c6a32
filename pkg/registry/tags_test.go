package registry_test

import (
	"context"
	"testing"

	"github.com/axle-registry/axle/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagLifecycle(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)

	record, err := r.Register(ctx, userV1)
	require.NoError(t, err)

	tags, err := r.Tags(ctx, record.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)

	require.NoError(t, r.SetTag(ctx, record.ID, "owner", "payments"))
	require.NoError(t, r.SetTag(ctx, record.ID, "owner", "billing"))

	value, err := r.Tag(ctx, record.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, "billing", value)

	_, err = r.Tag(ctx, record.ID, "missing")
	assert.True(t, registry.IsNotFound(err))

	require.NoError(t, r.DeleteTag(ctx, record.ID, "owner"))
	_, err = r.Tag(ctx, record.ID, "owner")
	assert.True(t, registry.IsNotFound(err))
}

func TestTagUnknownSchema(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)

	_, err := r.Tags(ctx, 42)
	assert.True(t, registry.IsNotFound(err))
	assert.True(t, registry.IsNotFound(r.SetTag(ctx, 42, "k", "v")))
	assert.True(t, registry.IsNotFound(r.DeleteTag(ctx, 42, "k")))
}

func TestGroupLifecycle(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)

	first, err := r.Register(ctx, userV1)
	require.NoError(t, err)
	second, err := r.Register(ctx, userV2)
	require.NoError(t, err)

	groupID, err := r.CreateGroup(ctx)
	require.NoError(t, err)

	members, err := r.Group(ctx, groupID)
	require.NoError(t, err)
	assert.Empty(t, members)

	require.NoError(t, r.AddToGroup(ctx, groupID, second.ID))
	require.NoError(t, r.AddToGroup(ctx, groupID, first.ID))
	require.NoError(t, r.AddToGroup(ctx, groupID, first.ID))

	members, err = r.Group(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID}, members)

	require.NoError(t, r.RemoveFromGroup(ctx, groupID, first.ID))
	members, err = r.Group(ctx, groupID)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.ID}, members)
}

func TestGroupValidation(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)

	record, err := r.Register(ctx, userV1)
	require.NoError(t, err)

	// unknown group
	assert.True(t, registry.IsNotFound(r.AddToGroup(ctx, 9, record.ID)))
	assert.True(t, registry.IsNotFound(r.RemoveFromGroup(ctx, 9, record.ID)))
	_, err = r.Group(ctx, 9)
	assert.True(t, registry.IsNotFound(err))

	// unknown schema
	groupID, err := r.CreateGroup(ctx)
	require.NoError(t, err)
	assert.True(t, registry.IsNotFound(r.AddToGroup(ctx, groupID, 42)))
}
