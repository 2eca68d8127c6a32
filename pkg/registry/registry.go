package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/axle-registry/axle/pkg/compat"
	"github.com/axle-registry/axle/pkg/dialect"
)

// Registry is the core façade: schema store, subject registry and
// compatibility engine over a Store.
type Registry struct {
	store Store
}

// New creates a Registry backed by the given store
func New(store Store) *Registry {
	return &Registry{store: store}
}

// ContentHash returns the hex SHA-256 digest of a canonical form
func ContentHash(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Register resolves the dialect and canonical form of raw, then
// returns the existing record with the same content hash or creates a
// new one. Registration is all-or-nothing: unparseable input never
// creates partial state.
func (r *Registry) Register(ctx context.Context, raw string) (*SchemaRecord, error) {
	d, canonical, err := dialect.Detect(raw)
	if err != nil {
		return nil, err
	}
	hash := ContentHash(canonical)

	if existing, err := r.store.GetSchemaByHash(ctx, hash); err == nil {
		return existing, nil
	} else if !IsNotFound(err) {
		return nil, err
	}

	record := &SchemaRecord{
		Hash:      hash,
		Canonical: canonical,
		Dialect:   d,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.CreateSchema(ctx, record); err != nil {
		// a concurrent writer may have inserted the same hash first
		if existing, lookupErr := r.store.GetSchemaByHash(ctx, hash); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return record, nil
}

// FindByID returns the schema record with the given id
func (r *Registry) FindByID(ctx context.Context, id int64) (*SchemaRecord, error) {
	return r.store.GetSchemaByID(ctx, id)
}

// FindByHash canonicalizes raw and looks up the record with the same
// content hash. Used to answer "does this exact schema already exist".
func (r *Registry) FindByHash(ctx context.Context, raw string) (*SchemaRecord, error) {
	_, canonical, err := dialect.Detect(raw)
	if err != nil {
		return nil, err
	}
	return r.store.GetSchemaByHash(ctx, ContentHash(canonical))
}

// maxPutRetries bounds how many times a read-modify-write on a subject
// is replayed after losing a revision race to a concurrent writer.
const maxPutRetries = 5

// RegisterVersion registers raw under a subject. If the resolved
// record already occupies any live slot the call is a no-op returning
// the existing version; otherwise a new slot is appended.
func (r *Registry) RegisterVersion(ctx context.Context, subjectName, raw string) (*SchemaRecord, int, error) {
	record, err := r.Register(ctx, raw)
	if err != nil {
		return nil, 0, err
	}

	for attempt := 0; ; attempt++ {
		subject, err := r.store.GetSubject(ctx, subjectName)
		if err != nil {
			if !IsNotFound(err) {
				return nil, 0, err
			}
			subject = &Subject{Name: subjectName}
		}

		for i, slot := range subject.Slots {
			if !slot.Tombstone && slot.RecordID == record.ID {
				return record, i + 1, nil
			}
		}

		subject.Slots = append(subject.Slots, LiveSlot(record.ID))
		err = r.store.PutSubject(ctx, subject)
		if err == nil {
			return record, len(subject.Slots), nil
		}
		if !IsConflict(err) || attempt == maxPutRetries {
			return nil, 0, err
		}
	}
}

// ResolveVersion resolves "latest" or a positive integer spec to a
// schema record and its version number. Tombstoned and out-of-range
// slots are NotFound.
func (r *Registry) ResolveVersion(ctx context.Context, subjectName, versionSpec string) (*SchemaRecord, int, error) {
	subject, err := r.store.GetSubject(ctx, subjectName)
	if err != nil {
		return nil, 0, err
	}
	version, err := resolveSlot(subject, versionSpec)
	if err != nil {
		return nil, 0, err
	}
	record, err := r.store.GetSchemaByID(ctx, subject.Slots[version-1].RecordID)
	if err != nil {
		return nil, 0, err
	}
	return record, version, nil
}

func resolveSlot(subject *Subject, versionSpec string) (int, error) {
	var version int
	if versionSpec == "latest" {
		version = len(subject.Slots)
	} else {
		n, err := strconv.Atoi(versionSpec)
		if err != nil || n < 1 {
			return 0, NewNotFound("version", "%s/%s", subject.Name, versionSpec)
		}
		version = n
	}
	if version < 1 || version > len(subject.Slots) || subject.Slots[version-1].Tombstone {
		return 0, NewNotFound("version", "%s/%s", subject.Name, versionSpec)
	}
	return version, nil
}

// ListVersions returns the live version numbers of a subject in
// ascending order. A subject whose every slot is a tombstone is
// indistinguishable from a deleted one and reports NotFound; a subject
// that never had versions lists as empty.
func (r *Registry) ListVersions(ctx context.Context, subjectName string) ([]int, error) {
	subject, err := r.store.GetSubject(ctx, subjectName)
	if err != nil {
		return nil, err
	}
	live := subject.LiveVersions()
	if len(subject.Slots) > 0 && len(live) == 0 {
		return nil, NewNotFound("subject", "%s", subjectName)
	}
	return live, nil
}

// DeleteVersion tombstones the resolved slot and returns its version
// number. Deleting an already-tombstoned or nonexistent slot is
// NotFound, not an idempotent success.
func (r *Registry) DeleteVersion(ctx context.Context, subjectName, versionSpec string) (int, error) {
	for attempt := 0; ; attempt++ {
		subject, err := r.store.GetSubject(ctx, subjectName)
		if err != nil {
			return 0, err
		}
		version, err := resolveSlot(subject, versionSpec)
		if err != nil {
			return 0, err
		}
		subject.Slots[version-1] = TombstoneSlot()
		err = r.store.PutSubject(ctx, subject)
		if err == nil {
			return version, nil
		}
		if !IsConflict(err) || attempt == maxPutRetries {
			return 0, err
		}
	}
}

// DeleteSubject tombstones every live slot and returns the version
// numbers that were live immediately before the delete.
func (r *Registry) DeleteSubject(ctx context.Context, subjectName string) ([]int, error) {
	for attempt := 0; ; attempt++ {
		subject, err := r.store.GetSubject(ctx, subjectName)
		if err != nil {
			return nil, err
		}
		surviving := subject.LiveVersions()
		for i := range subject.Slots {
			subject.Slots[i] = TombstoneSlot()
		}
		err = r.store.PutSubject(ctx, subject)
		if err == nil {
			return surviving, nil
		}
		if !IsConflict(err) || attempt == maxPutRetries {
			return nil, err
		}
	}
}

// IsDeleted reports whether a subject has slots and every one of them
// is a tombstone. A subject with no slots at all is not deleted.
func (r *Registry) IsDeleted(ctx context.Context, subjectName string) (bool, error) {
	subject, err := r.store.GetSubject(ctx, subjectName)
	if err != nil {
		return false, err
	}
	if len(subject.Slots) == 0 {
		return false, nil
	}
	for _, slot := range subject.Slots {
		if !slot.Tombstone {
			return false, nil
		}
	}
	return true, nil
}

// ListSubjects returns all subject names except the reserved global
// config subject.
func (r *Registry) ListSubjects(ctx context.Context) ([]string, error) {
	names, err := r.store.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	filtered := names[:0]
	for _, name := range names {
		if name != GlobalConfigSubject {
			filtered = append(filtered, name)
		}
	}
	return filtered, nil
}

// SchemaInSubject reports whether the exact schema raw is registered
// under the subject, returning the record and version when it is.
func (r *Registry) SchemaInSubject(ctx context.Context, subjectName, raw string) (*SchemaRecord, int, error) {
	record, err := r.FindByHash(ctx, raw)
	if err != nil {
		return nil, 0, err
	}
	subject, err := r.store.GetSubject(ctx, subjectName)
	if err != nil {
		return nil, 0, err
	}
	for i, slot := range subject.Slots {
		if !slot.Tombstone && slot.RecordID == record.ID {
			return record, i + 1, nil
		}
	}
	return nil, 0, NewNotFound("schema", "%s in subject %s", record.Hash, subjectName)
}

// SetCompatibility stores a compatibility level for a subject, or the
// global default when subjectName is empty. Unknown tokens are
// rejected before any state changes.
func (r *Registry) SetCompatibility(ctx context.Context, subjectName, levelToken string) error {
	if _, err := compat.ParseLevel(levelToken); err != nil {
		return &InvalidConfigError{Value: levelToken}
	}
	if subjectName == "" {
		subjectName = GlobalConfigSubject
	}
	for attempt := 0; ; attempt++ {
		subject, err := r.store.GetSubject(ctx, subjectName)
		if err != nil {
			if !IsNotFound(err) {
				return err
			}
			subject = &Subject{Name: subjectName}
		}
		subject.Compatibility = levelToken
		err = r.store.PutSubject(ctx, subject)
		if err == nil || !IsConflict(err) || attempt == maxPutRetries {
			return err
		}
	}
}

// GetCompatibility returns the stored level token for a subject, or
// the global default when subjectName is empty. An existing subject
// with no override reports the global default; only an unknown subject
// is NotFound. An unset global default reports NONE.
func (r *Registry) GetCompatibility(ctx context.Context, subjectName string) (string, error) {
	if subjectName == "" {
		subject, err := r.store.GetSubject(ctx, GlobalConfigSubject)
		if err != nil {
			if IsNotFound(err) {
				return compat.LevelNone.String(), nil
			}
			return "", err
		}
		if subject.Compatibility == "" {
			return compat.LevelNone.String(), nil
		}
		return subject.Compatibility, nil
	}
	subject, err := r.store.GetSubject(ctx, subjectName)
	if err != nil {
		return "", err
	}
	if subject.Compatibility == "" {
		return r.GetCompatibility(ctx, "")
	}
	return subject.Compatibility, nil
}

// EffectiveLevel resolves the level used for compatibility checks:
// subject override if set, else the global default, else NONE.
func (r *Registry) EffectiveLevel(ctx context.Context, subjectName string) (compat.Level, error) {
	subject, err := r.store.GetSubject(ctx, subjectName)
	if err == nil && subject.Compatibility != "" {
		return compat.ParseLevel(subject.Compatibility)
	}
	if err != nil && !IsNotFound(err) {
		return compat.LevelNone, err
	}
	token, err := r.GetCompatibility(ctx, "")
	if err != nil {
		return compat.LevelNone, err
	}
	return compat.ParseLevel(token)
}

// CheckCompatibility reports whether proposedRaw can be registered
// under the subject at its effective level. A subject with no live
// versions is vacuously compatible.
func (r *Registry) CheckCompatibility(ctx context.Context, subjectName, proposedRaw string) (bool, error) {
	subject, err := r.store.GetSubject(ctx, subjectName)
	if err != nil {
		if IsNotFound(err) {
			return true, nil
		}
		return false, err
	}

	// live history, oldest to newest
	var history []*SchemaRecord
	for _, slot := range subject.Slots {
		if slot.Tombstone {
			continue
		}
		record, err := r.store.GetSchemaByID(ctx, slot.RecordID)
		if err != nil {
			return false, err
		}
		history = append(history, record)
	}
	if len(history) == 0 {
		return true, nil
	}

	latest := history[len(history)-1]
	parser := dialect.ForDialect(latest.Dialect)

	proposedCanonical, err := parser.ParseCanonical(proposedRaw)
	if err != nil {
		return false, &dialect.ParseError{Message: fmt.Sprintf("proposed schema does not parse as %s: %v", latest.Dialect, err)}
	}

	level, err := r.EffectiveLevel(ctx, subjectName)
	if err != nil {
		return false, err
	}

	// most recent first
	canonicals := make([]string, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		canonicals = append(canonicals, history[i].Canonical)
	}
	return parser.IsCompatibleWith(level, canonicals, proposedCanonical), nil
}
