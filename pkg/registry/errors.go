package registry

import (
	"errors"
	"fmt"
)

// NotFoundError indicates an unknown id, subject, version or a
// tombstoned slot.
type NotFoundError struct {
	Kind string // "schema", "subject", "version", "group", "tag"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// NewNotFound creates a NotFoundError for the given kind and key
func NewNotFound(kind string, keyFormat string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Kind: kind, Key: fmt.Sprintf(keyFormat, args...)}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ConflictError indicates a subject write lost a revision race to a
// concurrent writer. The caller re-reads and replays its change.
type ConflictError struct {
	Subject string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("subject %s was modified concurrently", e.Subject)
}

// IsConflict reports whether err is a ConflictError
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// InvalidConfigError indicates an unrecognized compatibility level
// token, rejected before any state is mutated.
type InvalidConfigError struct {
	Value string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid compatibility level %q", e.Value)
}

// IsInvalidConfig reports whether err is an InvalidConfigError
func IsInvalidConfig(err error) bool {
	var ic *InvalidConfigError
	return errors.As(err, &ic)
}
