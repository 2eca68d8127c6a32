package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/axle-registry/axle/pkg/registry"
)

// Memory is an in-memory Store for development and tests
type Memory struct {
	mu            sync.RWMutex
	nextSchemaID  int64
	nextGroupID   int64
	schemasByID   map[int64]*registry.SchemaRecord
	schemasByHash map[string]int64
	subjects      map[string]*registry.Subject
	tags          map[int64]map[string]string
	groups        map[int64]map[int64]struct{}
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		schemasByID:   make(map[int64]*registry.SchemaRecord),
		schemasByHash: make(map[string]int64),
		subjects:      make(map[string]*registry.Subject),
		tags:          make(map[int64]map[string]string),
		groups:        make(map[int64]map[int64]struct{}),
	}
}

// CreateSchema persists a new schema record and assigns its ID
func (m *Memory) CreateSchema(ctx context.Context, record *registry.SchemaRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, exists := m.schemasByHash[record.Hash]; exists {
		// mirror the unique constraint a SQL backend enforces
		record.ID = id
		return nil
	}
	m.nextSchemaID++
	record.ID = m.nextSchemaID
	stored := *record
	m.schemasByID[record.ID] = &stored
	m.schemasByHash[record.Hash] = record.ID
	return nil
}

// GetSchemaByID returns the schema record with the given id
func (m *Memory) GetSchemaByID(ctx context.Context, id int64) (*registry.SchemaRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.schemasByID[id]
	if !ok {
		return nil, registry.NewNotFound("schema", "%d", id)
	}
	copied := *record
	return &copied, nil
}

// GetSchemaByHash returns the schema record with the given content hash
func (m *Memory) GetSchemaByHash(ctx context.Context, hash string) (*registry.SchemaRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.schemasByHash[hash]
	if !ok {
		return nil, registry.NewNotFound("schema", "%s", hash)
	}
	copied := *m.schemasByID[id]
	return &copied, nil
}

// GetSubject returns a copy of the subject with the given name
func (m *Memory) GetSubject(ctx context.Context, name string) (*registry.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subject, ok := m.subjects[name]
	if !ok {
		return nil, registry.NewNotFound("subject", "%s", name)
	}
	return copySubject(subject), nil
}

// PutSubject writes a subject if its revision still matches the stored
// row, bumping the revision by one
func (m *Memory) PutSubject(ctx context.Context, subject *registry.Subject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var current int64
	if stored, ok := m.subjects[subject.Name]; ok {
		current = stored.Revision
	}
	if subject.Revision != current {
		return &registry.ConflictError{Subject: subject.Name}
	}
	stored := copySubject(subject)
	stored.Revision = current + 1
	m.subjects[subject.Name] = stored
	subject.Revision = stored.Revision
	return nil
}

// ListSubjects returns all subject names in lexical order
func (m *Memory) ListSubjects(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.subjects))
	for name := range m.subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetTags returns the tags attached to a schema
func (m *Memory) GetTags(ctx context.Context, schemaID int64) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tags := make(map[string]string, len(m.tags[schemaID]))
	for k, v := range m.tags[schemaID] {
		tags[k] = v
	}
	return tags, nil
}

// SetTag attaches or overwrites a tag on a schema
func (m *Memory) SetTag(ctx context.Context, schemaID int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tags[schemaID] == nil {
		m.tags[schemaID] = make(map[string]string)
	}
	m.tags[schemaID][key] = value
	return nil
}

// DeleteTag removes a tag from a schema
func (m *Memory) DeleteTag(ctx context.Context, schemaID int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tags[schemaID], key)
	return nil
}

// CreateGroup allocates a new empty group
func (m *Memory) CreateGroup(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextGroupID++
	m.groups[m.nextGroupID] = make(map[int64]struct{})
	return m.nextGroupID, nil
}

// GetGroup returns the member schema ids of a group in ascending order
func (m *Memory) GetGroup(ctx context.Context, id int64) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members, ok := m.groups[id]
	if !ok {
		return nil, registry.NewNotFound("group", "%d", id)
	}
	ids := make([]int64, 0, len(members))
	for member := range members {
		ids = append(ids, member)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// AddGroupMember adds a schema to a group
func (m *Memory) AddGroupMember(ctx context.Context, groupID, schemaID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.groups[groupID]
	if !ok {
		return registry.NewNotFound("group", "%d", groupID)
	}
	members[schemaID] = struct{}{}
	return nil
}

// RemoveGroupMember removes a schema from a group
func (m *Memory) RemoveGroupMember(ctx context.Context, groupID, schemaID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.groups[groupID]
	if !ok {
		return registry.NewNotFound("group", "%d", groupID)
	}
	delete(members, schemaID)
	return nil
}

// Ping always succeeds for the in-memory store
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store
func (m *Memory) Close() error {
	return nil
}

func copySubject(subject *registry.Subject) *registry.Subject {
	copied := &registry.Subject{
		Name:          subject.Name,
		Compatibility: subject.Compatibility,
		Revision:      subject.Revision,
		Slots:         make([]registry.VersionSlot, len(subject.Slots)),
	}
	copy(copied.Slots, subject.Slots)
	return copied
}
