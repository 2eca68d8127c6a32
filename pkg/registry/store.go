package registry

import (
	"context"
)

// Store is the storage collaborator the registry core runs against.
// Implementations must make each mutating call atomic (one transaction
// per call); storage failures are returned unmodified and never
// retried here.
//
// Lookups of absent rows return a *NotFoundError.
type Store interface {
	// CreateSchema persists a new schema record and assigns its ID.
	// The content hash carries a unique constraint.
	CreateSchema(ctx context.Context, record *SchemaRecord) error
	GetSchemaByID(ctx context.Context, id int64) (*SchemaRecord, error)
	GetSchemaByHash(ctx context.Context, hash string) (*SchemaRecord, error)

	GetSubject(ctx context.Context, name string) (*Subject, error)
	// PutSubject writes a subject guarded by its Revision: the write
	// succeeds only when the stored revision still matches, bumping it
	// by one, and returns a *ConflictError otherwise. A zero revision
	// asserts that no row exists yet.
	PutSubject(ctx context.Context, subject *Subject) error
	ListSubjects(ctx context.Context) ([]string, error)

	GetTags(ctx context.Context, schemaID int64) (map[string]string, error)
	SetTag(ctx context.Context, schemaID int64, key, value string) error
	DeleteTag(ctx context.Context, schemaID int64, key string) error

	CreateGroup(ctx context.Context) (int64, error)
	GetGroup(ctx context.Context, id int64) ([]int64, error)
	AddGroupMember(ctx context.Context, groupID, schemaID int64) error
	RemoveGroupMember(ctx context.Context, groupID, schemaID int64) error

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error

	Close() error
}
