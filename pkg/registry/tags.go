package registry

import (
	"context"
)

// Tags returns the key/value annotations attached to a schema. A
// schema with no tags yields an empty map; an unknown schema id is
// NotFound.
func (r *Registry) Tags(ctx context.Context, schemaID int64) (map[string]string, error) {
	if _, err := r.store.GetSchemaByID(ctx, schemaID); err != nil {
		return nil, err
	}
	return r.store.GetTags(ctx, schemaID)
}

// Tag returns a single tag value by key
func (r *Registry) Tag(ctx context.Context, schemaID int64, key string) (string, error) {
	tags, err := r.Tags(ctx, schemaID)
	if err != nil {
		return "", err
	}
	value, ok := tags[key]
	if !ok {
		return "", NewNotFound("tag", "%d/%s", schemaID, key)
	}
	return value, nil
}

// SetTag attaches or overwrites a tag on a schema
func (r *Registry) SetTag(ctx context.Context, schemaID int64, key, value string) error {
	if _, err := r.store.GetSchemaByID(ctx, schemaID); err != nil {
		return err
	}
	return r.store.SetTag(ctx, schemaID, key, value)
}

// DeleteTag removes a tag from a schema
func (r *Registry) DeleteTag(ctx context.Context, schemaID int64, key string) error {
	if _, err := r.store.GetSchemaByID(ctx, schemaID); err != nil {
		return err
	}
	return r.store.DeleteTag(ctx, schemaID, key)
}
