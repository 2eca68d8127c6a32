package registry

import (
	"context"
)

// CreateGroup allocates a new, empty schema group and returns its id
func (r *Registry) CreateGroup(ctx context.Context) (int64, error) {
	return r.store.CreateGroup(ctx)
}

// Group returns the member schema ids of a group
func (r *Registry) Group(ctx context.Context, groupID int64) ([]int64, error) {
	return r.store.GetGroup(ctx, groupID)
}

// AddToGroup adds an existing schema to a group
func (r *Registry) AddToGroup(ctx context.Context, groupID, schemaID int64) error {
	if _, err := r.store.GetSchemaByID(ctx, schemaID); err != nil {
		return err
	}
	if _, err := r.store.GetGroup(ctx, groupID); err != nil {
		return err
	}
	return r.store.AddGroupMember(ctx, groupID, schemaID)
}

// RemoveFromGroup removes a schema from a group
func (r *Registry) RemoveFromGroup(ctx context.Context, groupID, schemaID int64) error {
	if _, err := r.store.GetGroup(ctx, groupID); err != nil {
		return err
	}
	return r.store.RemoveGroupMember(ctx, groupID, schemaID)
}
