package dialect

import (
	"fmt"

	"github.com/axle-registry/axle/pkg/compat"
	"github.com/axle-registry/axle/pkg/protodiff"
	"github.com/axle-registry/axle/pkg/protoparse"
)

// ProtobufParser implements the Protocol Buffers dialect
type ProtobufParser struct{}

// Dialect returns the dialect this parser implements
func (p *ProtobufParser) Dialect() Dialect {
	return Protobuf
}

// ParseCanonical validates raw as protobuf schema text and returns the
// canonical reconstruction of its parsed form.
func (p *ProtobufParser) ParseCanonical(raw string) (string, error) {
	file, err := protoparse.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid protobuf schema: %w", err)
	}
	return protoparse.Format(file), nil
}

// IsCompatibleWith evaluates the structural diff rules between the
// proposed schema and the history. The rule set does not vary with the
// level: any level other than NONE enables the full set, and the level
// only decides whether the diff gates against the latest version or
// against every version (transitive variants).
func (p *ProtobufParser) IsCompatibleWith(level compat.Level, history []string, proposed string) bool {
	if level == compat.LevelNone {
		return true
	}
	proposedFile, err := protoparse.Parse(proposed)
	if err != nil {
		return false
	}

	gated := history
	if !level.Transitive() && len(history) > 1 {
		gated = history[:1]
	}

	for _, existing := range gated {
		existingFile, err := protoparse.Parse(existing)
		if err != nil {
			return false
		}
		if !protodiff.NewChecker(existingFile, proposedFile).Validate() {
			return false
		}
	}
	return true
}

// TokenizeForSearch extracts message, field, enum and service names
func (p *ProtobufParser) TokenizeForSearch(canonical string) []string {
	file, err := protoparse.Parse(canonical)
	if err != nil {
		return nil
	}
	var tokens []string
	var walkMessage func(m *protoparse.Message)
	walkMessage = func(m *protoparse.Message) {
		tokens = append(tokens, m.Name)
		for _, f := range m.Fields {
			tokens = append(tokens, f.Name)
		}
		for _, o := range m.OneOfs {
			for _, f := range o.Fields {
				tokens = append(tokens, f.Name)
			}
		}
		for _, e := range m.Enums {
			tokens = append(tokens, e.Name)
		}
		for _, nested := range m.Messages {
			walkMessage(nested)
		}
	}
	for _, m := range file.Messages {
		walkMessage(m)
	}
	for _, e := range file.Enums {
		tokens = append(tokens, e.Name)
	}
	for _, s := range file.Services {
		tokens = append(tokens, s.Name)
		for _, rpc := range s.RPCs {
			tokens = append(tokens, rpc.Name)
		}
	}
	return tokens
}
