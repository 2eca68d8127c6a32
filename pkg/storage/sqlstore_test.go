package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/axle-registry/axle/pkg/dialect"
	"github.com/axle-registry/axle/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &SQLStore{db: db, postgres: false}, mock
}

func TestRebind(t *testing.T) {
	s := &SQLStore{postgres: true}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", s.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	s = &SQLStore{postgres: false}
	assert.Equal(t, "SELECT * FROM t WHERE a = ?", s.rebind("SELECT * FROM t WHERE a = ?"))
}

func TestCreateSchemaUsesAutoincrementID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO schemas \(hash, canonical, dialect, created_at\)`).
		WithArgs("hash", "canonical", "AVRO", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	record := &registry.SchemaRecord{
		Hash:      "hash",
		Canonical: "canonical",
		Dialect:   dialect.Avro,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateSchema(context.Background(), record))
	assert.Equal(t, int64(42), record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSchemaPostgresReturningID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := &SQLStore{db: db, postgres: true}

	mock.ExpectQuery(`INSERT INTO schemas \(hash, canonical, dialect, created_at\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id`).
		WithArgs("hash", "canonical", "AVRO", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	record := &registry.SchemaRecord{
		Hash:      "hash",
		Canonical: "canonical",
		Dialect:   dialect.Avro,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateSchema(context.Background(), record))
	assert.Equal(t, int64(7), record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSchemaByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, hash, canonical, dialect, created_at FROM schemas WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetSchemaByID(context.Background(), 7)
	assert.True(t, registry.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSchemaByHash(t *testing.T) {
	s, mock := newMockStore(t)

	created := time.Now().UTC().Format(time.RFC3339Nano)
	mock.ExpectQuery(`SELECT id, hash, canonical, dialect, created_at FROM schemas WHERE hash = \?`).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "hash", "canonical", "dialect", "created_at"}).
			AddRow(3, "abc", `{"type":"string"}`, "AVRO", created))

	record, err := s.GetSchemaByHash(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(3), record.ID)
	assert.Equal(t, dialect.Avro, record.Dialect)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutSubjectInsertsAtRevisionZero(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO subjects`).
		WithArgs("orders-value", `[{"RecordID":1,"Tombstone":false},{"RecordID":0,"Tombstone":true}]`, "BACKWARD").
		WillReturnResult(sqlmock.NewResult(0, 1))

	subject := &registry.Subject{
		Name:          "orders-value",
		Slots:         []registry.VersionSlot{registry.LiveSlot(1), registry.TombstoneSlot()},
		Compatibility: "BACKWARD",
	}
	require.NoError(t, s.PutSubject(context.Background(), subject))
	assert.Equal(t, int64(1), subject.Revision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutSubjectGuardsOnRevision(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE subjects SET slots = \?, compatibility = \?, revision = revision \+ 1 WHERE name = \? AND revision = \?`).
		WithArgs(`[{"RecordID":1,"Tombstone":false}]`, "", "orders-value", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	subject := &registry.Subject{
		Name:     "orders-value",
		Slots:    []registry.VersionSlot{registry.LiveSlot(1)},
		Revision: 3,
	}
	require.NoError(t, s.PutSubject(context.Background(), subject))
	assert.Equal(t, int64(4), subject.Revision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutSubjectStaleRevisionConflicts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE subjects`).
		WithArgs(`[]`, "", "orders-value", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	subject := &registry.Subject{
		Name:     "orders-value",
		Slots:    []registry.VersionSlot{},
		Revision: 2,
	}
	err := s.PutSubject(context.Background(), subject)
	assert.True(t, registry.IsConflict(err))
	assert.Equal(t, int64(2), subject.Revision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutSubjectLostInsertRaceConflicts(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO subjects`).
		WithArgs("orders-value", `[]`, "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	subject := &registry.Subject{Name: "orders-value", Slots: []registry.VersionSlot{}}
	err := s.PutSubject(context.Background(), subject)
	assert.True(t, registry.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubjectParsesSlots(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT name, slots, compatibility, revision FROM subjects WHERE name = \?`).
		WithArgs("orders-value").
		WillReturnRows(sqlmock.NewRows([]string{"name", "slots", "compatibility", "revision"}).
			AddRow("orders-value", `[{"RecordID":5,"Tombstone":false}]`, "", 6))

	subject, err := s.GetSubject(context.Background(), "orders-value")
	require.NoError(t, err)
	require.Len(t, subject.Slots, 1)
	assert.Equal(t, int64(5), subject.Slots[0].RecordID)
	assert.Equal(t, int64(6), subject.Revision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGroupNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schema_groups WHERE id = \?`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := s.GetGroup(context.Background(), 9)
	assert.True(t, registry.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
