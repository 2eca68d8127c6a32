package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	// database drivers
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/axle-registry/axle/pkg/dialect"
	"github.com/axle-registry/axle/pkg/registry"
)

// %[1]s is the auto-assigned id column, which differs per driver
const sqlSchemaFormat = `
CREATE TABLE IF NOT EXISTS schemas (
	id %[1]s,
	hash TEXT NOT NULL UNIQUE,
	canonical TEXT NOT NULL,
	dialect TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS subjects (
	name TEXT PRIMARY KEY,
	slots TEXT NOT NULL,
	compatibility TEXT NOT NULL DEFAULT '',
	revision BIGINT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS schema_tags (
	schema_id BIGINT NOT NULL,
	tag_key TEXT NOT NULL,
	tag_value TEXT NOT NULL,
	PRIMARY KEY (schema_id, tag_key)
);
CREATE TABLE IF NOT EXISTS schema_groups (
	id %[1]s
);
CREATE TABLE IF NOT EXISTS group_members (
	group_id BIGINT NOT NULL,
	schema_id BIGINT NOT NULL,
	PRIMARY KEY (group_id, schema_id)
);
`

// SQLStore implements registry.Store on database/sql. Queries are
// written with ? placeholders and rebound for PostgreSQL.
type SQLStore struct {
	db       *sql.DB
	postgres bool
}

// NewPostgres opens a PostgreSQL-backed store
func NewPostgres(url string, maxConns int) (*SQLStore, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns / 2)
	}
	db.SetConnMaxLifetime(time.Hour)
	return newSQLStore(db, true)
}

// NewSQLite opens a SQLite-backed store at the given path
func NewSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite serializes writers; a single connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	return newSQLStore(db, false)
}

func newSQLStore(db *sql.DB, postgres bool) (*SQLStore, error) {
	s := &SQLStore{db: db, postgres: postgres}
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if postgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}
	for _, stmt := range strings.Split(fmt.Sprintf(sqlSchemaFormat, idColumn), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return s, nil
}

// rebind converts ? placeholders to $n for postgres
func (s *SQLStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CreateSchema persists a new schema record and assigns its ID. The
// database allocates ids, so concurrent inserts never collide.
func (s *SQLStore) CreateSchema(ctx context.Context, record *registry.SchemaRecord) error {
	createdAt := record.CreatedAt.UTC().Format(time.RFC3339Nano)
	if s.postgres {
		return s.db.QueryRowContext(ctx,
			s.rebind("INSERT INTO schemas (hash, canonical, dialect, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
			record.Hash, record.Canonical, record.Dialect.String(), createdAt).Scan(&record.ID)
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO schemas (hash, canonical, dialect, created_at) VALUES (?, ?, ?, ?)",
		record.Hash, record.Canonical, record.Dialect.String(), createdAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	record.ID = id
	return nil
}

func (s *SQLStore) scanSchema(row *sql.Row, key string) (*registry.SchemaRecord, error) {
	record := &registry.SchemaRecord{}
	var dialectToken, createdAt string
	err := row.Scan(&record.ID, &record.Hash, &record.Canonical, &dialectToken, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, registry.NewNotFound("schema", "%s", key)
	}
	if err != nil {
		return nil, err
	}
	d, err := dialect.ParseDialect(dialectToken)
	if err != nil {
		return nil, err
	}
	record.Dialect = d
	record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return record, nil
}

// GetSchemaByID returns the schema record with the given id
func (s *SQLStore) GetSchemaByID(ctx context.Context, id int64) (*registry.SchemaRecord, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, hash, canonical, dialect, created_at FROM schemas WHERE id = ?"), id)
	return s.scanSchema(row, strconv.FormatInt(id, 10))
}

// GetSchemaByHash returns the schema record with the given content hash
func (s *SQLStore) GetSchemaByHash(ctx context.Context, hash string) (*registry.SchemaRecord, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, hash, canonical, dialect, created_at FROM schemas WHERE hash = ?"), hash)
	return s.scanSchema(row, hash)
}

// GetSubject returns the subject with the given name
func (s *SQLStore) GetSubject(ctx context.Context, name string) (*registry.Subject, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind("SELECT name, slots, compatibility, revision FROM subjects WHERE name = ?"), name)
	subject := &registry.Subject{}
	var slotsJSON string
	err := row.Scan(&subject.Name, &slotsJSON, &subject.Compatibility, &subject.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, registry.NewNotFound("subject", "%s", name)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(slotsJSON), &subject.Slots); err != nil {
		return nil, fmt.Errorf("corrupt slot list for subject %s: %w", name, err)
	}
	return subject, nil
}

// PutSubject writes a subject if its revision still matches the stored
// row, bumping the revision by one
func (s *SQLStore) PutSubject(ctx context.Context, subject *registry.Subject) error {
	slotsJSON, err := json.Marshal(subject.Slots)
	if err != nil {
		return err
	}
	var res sql.Result
	if subject.Revision == 0 {
		res, err = s.db.ExecContext(ctx, s.rebind(
			`INSERT INTO subjects (name, slots, compatibility, revision) VALUES (?, ?, ?, 1)
			 ON CONFLICT (name) DO NOTHING`),
			subject.Name, string(slotsJSON), subject.Compatibility)
	} else {
		res, err = s.db.ExecContext(ctx, s.rebind(
			"UPDATE subjects SET slots = ?, compatibility = ?, revision = revision + 1 WHERE name = ? AND revision = ?"),
			string(slotsJSON), subject.Compatibility, subject.Name, subject.Revision)
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &registry.ConflictError{Subject: subject.Name}
	}
	subject.Revision++
	return nil
}

// ListSubjects returns all subject names in lexical order
func (s *SQLStore) ListSubjects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM subjects ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetTags returns the tags attached to a schema
func (s *SQLStore) GetTags(ctx context.Context, schemaID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT tag_key, tag_value FROM schema_tags WHERE schema_id = ?"), schemaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		tags[key] = value
	}
	return tags, rows.Err()
}

// SetTag attaches or overwrites a tag on a schema
func (s *SQLStore) SetTag(ctx context.Context, schemaID int64, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO schema_tags (schema_id, tag_key, tag_value) VALUES (?, ?, ?)
		 ON CONFLICT (schema_id, tag_key) DO UPDATE SET tag_value = EXCLUDED.tag_value`),
		schemaID, key, value)
	return err
}

// DeleteTag removes a tag from a schema
func (s *SQLStore) DeleteTag(ctx context.Context, schemaID int64, key string) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind("DELETE FROM schema_tags WHERE schema_id = ? AND tag_key = ?"), schemaID, key)
	return err
}

// CreateGroup allocates a new empty group with a database-assigned id
func (s *SQLStore) CreateGroup(ctx context.Context) (int64, error) {
	if s.postgres {
		var id int64
		err := s.db.QueryRowContext(ctx, "INSERT INTO schema_groups DEFAULT VALUES RETURNING id").Scan(&id)
		return id, err
	}
	res, err := s.db.ExecContext(ctx, "INSERT INTO schema_groups DEFAULT VALUES")
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetGroup returns the member schema ids of a group in ascending order
func (s *SQLStore) GetGroup(ctx context.Context, id int64) ([]int64, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT COUNT(*) FROM schema_groups WHERE id = ?"), id).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, registry.NewNotFound("group", "%d", id)
	}
	rows, err := s.db.QueryContext(ctx,
		s.rebind("SELECT schema_id FROM group_members WHERE group_id = ? ORDER BY schema_id"), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]int64, 0)
	for rows.Next() {
		var member int64
		if err := rows.Scan(&member); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// AddGroupMember adds a schema to a group
func (s *SQLStore) AddGroupMember(ctx context.Context, groupID, schemaID int64) error {
	_, err := s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO group_members (group_id, schema_id) VALUES (?, ?)
		 ON CONFLICT (group_id, schema_id) DO NOTHING`),
		groupID, schemaID)
	return err
}

// RemoveGroupMember removes a schema from a group
func (s *SQLStore) RemoveGroupMember(ctx context.Context, groupID, schemaID int64) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind("DELETE FROM group_members WHERE group_id = ? AND schema_id = ?"), groupID, schemaID)
	return err
}

// Ping reports whether the database is reachable
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle
func (s *SQLStore) Close() error {
	return s.db.Close()
}
