package dialect

import (
	"fmt"

	"github.com/axle-registry/axle/pkg/compat"
)

// Dialect identifies a supported schema dialect
type Dialect int

const (
	Avro Dialect = iota
	JSONSchema
	Protobuf
)

func (d Dialect) String() string {
	return []string{"AVRO", "JSON", "PROTOBUF"}[d]
}

// ParseDialect converts a stored dialect token back into a Dialect
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "AVRO":
		return Avro, nil
	case "JSON":
		return JSONSchema, nil
	case "PROTOBUF":
		return Protobuf, nil
	default:
		return Avro, fmt.Errorf("unknown dialect %q", s)
	}
}

// ParseError indicates raw schema text that no dialect accepts
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// Parser is the per-dialect contract: canonicalization, compatibility
// and search tokenization.
type Parser interface {
	// Dialect returns the dialect this parser implements
	Dialect() Dialect
	// ParseCanonical returns the canonical textual form of raw, or an
	// error if raw is not valid for this dialect. Canonicalization is
	// idempotent.
	ParseCanonical(raw string) (string, error)
	// IsCompatibleWith reports whether proposed can be registered on
	// top of history (canonical forms, most recent first) at the given
	// level.
	IsCompatibleWith(level compat.Level, history []string, proposed string) bool
	// TokenizeForSearch extracts searchable tokens from a canonical form
	TokenizeForSearch(canonical string) []string
}

// Parsers returns the dialect parsers in detection priority order
func Parsers() []Parser {
	return []Parser{
		&AvroParser{},
		&JSONSchemaParser{},
		&ProtobufParser{},
	}
}

// ForDialect returns the parser for a known dialect
func ForDialect(d Dialect) Parser {
	for _, p := range Parsers() {
		if p.Dialect() == d {
			return p
		}
	}
	panic(fmt.Sprintf("no parser for dialect %d", d))
}

// Detect tries each dialect in priority order and returns the first
// accepting dialect together with the canonical form. If no dialect
// accepts, a *ParseError is returned.
func Detect(raw string) (Dialect, string, error) {
	for _, p := range Parsers() {
		canonical, err := p.ParseCanonical(raw)
		if err == nil {
			return p.Dialect(), canonical, nil
		}
	}
	return Avro, "", &ParseError{Message: "schema text does not match any supported dialect"}
}
