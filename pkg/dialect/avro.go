package dialect

import (
	"fmt"

	"github.com/amient/avro"
	"github.com/axle-registry/axle/pkg/compat"
)

// AvroParser implements the Avro dialect
type AvroParser struct{}

// Dialect returns the dialect this parser implements
func (p *AvroParser) Dialect() Dialect {
	return Avro
}

// ParseCanonical validates raw as an Avro schema and returns its
// normalized JSON serialization.
func (p *AvroParser) ParseCanonical(raw string) (string, error) {
	schema, err := avro.ParseSchema(raw)
	if err != nil {
		return "", fmt.Errorf("invalid avro schema: %w", err)
	}
	return schema.String(), nil
}

// IsCompatibleWith checks the proposed schema against the history
// using Avro schema resolution. BACKWARD means the proposed schema can
// read data written with an existing one, FORWARD the reverse, FULL
// both. Plain levels gate against the latest version only, transitive
// levels against every version.
func (p *AvroParser) IsCompatibleWith(level compat.Level, history []string, proposed string) bool {
	if level == compat.LevelNone {
		return true
	}
	proposedSchema, err := avro.ParseSchema(proposed)
	if err != nil {
		return false
	}

	gated := history
	if !level.Transitive() && len(history) > 1 {
		gated = history[:1]
	}

	for _, existing := range gated {
		existingSchema, err := avro.ParseSchema(existing)
		if err != nil {
			return false
		}
		switch level {
		case compat.LevelBackward, compat.LevelBackwardTransitive:
			if !canRead(existingSchema, proposedSchema) {
				return false
			}
		case compat.LevelForward, compat.LevelForwardTransitive:
			if !canRead(proposedSchema, existingSchema) {
				return false
			}
		case compat.LevelFull, compat.LevelFullTransitive:
			if !canRead(existingSchema, proposedSchema) || !canRead(proposedSchema, existingSchema) {
				return false
			}
		}
	}
	return true
}

// TokenizeForSearch extracts the record name and field names
func (p *AvroParser) TokenizeForSearch(canonical string) []string {
	schema, err := avro.ParseSchema(canonical)
	if err != nil {
		return nil
	}
	var tokens []string
	if name := schema.GetName(); name != "" {
		tokens = append(tokens, name)
	}
	if record, ok := schema.(*avro.RecordSchema); ok {
		for _, field := range record.Fields {
			tokens = append(tokens, field.Name)
		}
	}
	return tokens
}
