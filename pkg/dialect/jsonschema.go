package dialect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/axle-registry/axle/pkg/compat"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchemaParser implements the JSON Schema dialect
type JSONSchemaParser struct{}

// Dialect returns the dialect this parser implements
func (p *JSONSchemaParser) Dialect() Dialect {
	return JSONSchema
}

// ParseCanonical validates raw as a JSON Schema document and returns a
// compact re-serialization with object keys sorted.
func (p *JSONSchemaParser) ParseCanonical(raw string) (string, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return "", fmt.Errorf("invalid json: %w", err)
	}
	if _, ok := doc.(map[string]interface{}); !ok {
		return "", fmt.Errorf("json schema document must be an object")
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(raw)); err != nil {
		return "", fmt.Errorf("invalid json schema: %w", err)
	}
	if _, err := compiler.Compile("schema.json"); err != nil {
		return "", fmt.Errorf("invalid json schema: %w", err)
	}

	canonical, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(canonical), nil
}

// IsCompatibleWith compares canonical forms for exact equality against
// the most recent version. There are no structural evolution rules for
// JSON Schema.
func (p *JSONSchemaParser) IsCompatibleWith(level compat.Level, history []string, proposed string) bool {
	if level == compat.LevelNone {
		return true
	}
	if len(history) == 0 {
		return true
	}
	return proposed == history[0]
}

// TokenizeForSearch extracts the title and property names
func (p *JSONSchemaParser) TokenizeForSearch(canonical string) []string {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(canonical), &doc); err != nil {
		return nil
	}
	var tokens []string
	if title, ok := doc["title"].(string); ok && title != "" {
		tokens = append(tokens, title)
	}
	if props, ok := doc["properties"].(map[string]interface{}); ok {
		for name := range props {
			tokens = append(tokens, name)
		}
	}
	return tokens
}
