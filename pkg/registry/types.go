package registry

import (
	"time"

	"github.com/axle-registry/axle/pkg/dialect"
)

// GlobalConfigSubject is the reserved subject name under which the
// global compatibility default is stored. It never appears in subject
// listings.
const GlobalConfigSubject = "_GLOBALCONFIG"

// SchemaRecord is an immutable, content-addressed schema. Records are
// shared across subjects and never mutated after creation.
type SchemaRecord struct {
	ID        int64
	Hash      string
	Canonical string
	Dialect   dialect.Dialect
	CreatedAt time.Time
}

// VersionSlot is one entry in a subject's version list. A slot is
// either live, pointing at a schema record, or a tombstone left behind
// by a delete so later version numbers keep their positions.
type VersionSlot struct {
	RecordID  int64
	Tombstone bool
}

// LiveSlot returns a slot pointing at a schema record
func LiveSlot(recordID int64) VersionSlot {
	return VersionSlot{RecordID: recordID}
}

// TombstoneSlot returns a deleted slot placeholder
func TombstoneSlot() VersionSlot {
	return VersionSlot{Tombstone: true}
}

// Subject is a named, append-only sequence of version slots plus an
// optional compatibility override. Version numbers are 1-based slot
// positions.
type Subject struct {
	Name          string
	Slots         []VersionSlot
	Compatibility string // level token, empty when no override is set
	// Revision is the optimistic concurrency token. A store rejects a
	// put whose revision does not match the stored row; zero means the
	// caller expects no row to exist yet.
	Revision int64
}

// LiveVersions returns the 1-based version numbers of all
// non-tombstoned slots in ascending order.
func (s *Subject) LiveVersions() []int {
	versions := make([]int, 0, len(s.Slots))
	for i, slot := range s.Slots {
		if !slot.Tombstone {
			versions = append(versions, i+1)
		}
	}
	return versions
}
