package compat

import (
	"fmt"
)

// Level defines the type of compatibility checking applied to a subject
type Level int

const (
	LevelNone Level = iota
	LevelBackward
	LevelForward
	LevelFull
	LevelBackwardTransitive
	LevelForwardTransitive
	LevelFullTransitive
)

func (l Level) String() string {
	return []string{
		"NONE", "BACKWARD", "FORWARD", "FULL",
		"BACKWARD_TRANSITIVE", "FORWARD_TRANSITIVE", "FULL_TRANSITIVE",
	}[l]
}

// Transitive reports whether the level gates against the full version
// history rather than the latest version only.
func (l Level) Transitive() bool {
	switch l {
	case LevelBackwardTransitive, LevelForwardTransitive, LevelFullTransitive:
		return true
	}
	return false
}

var levelNames = map[string]Level{
	"NONE":                LevelNone,
	"BACKWARD":            LevelBackward,
	"FORWARD":             LevelForward,
	"FULL":                LevelFull,
	"BACKWARD_TRANSITIVE": LevelBackwardTransitive,
	"FORWARD_TRANSITIVE":  LevelForwardTransitive,
	"FULL_TRANSITIVE":     LevelFullTransitive,
}

// ParseLevel converts a level token into a Level. Tokens are
// case-sensitive; anything outside the seven known values is an error.
func ParseLevel(s string) (Level, error) {
	l, ok := levelNames[s]
	if !ok {
		return LevelNone, fmt.Errorf("unknown compatibility level %q", s)
	}
	return l, nil
}
