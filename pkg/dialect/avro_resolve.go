package dialect

import (
	"github.com/amient/avro"
)

// canRead reports whether data written with the writer schema can be
// decoded using the reader schema, following the Avro schema
// resolution rules.
func canRead(writer, reader avro.Schema) bool {
	// recursive references resolve to an enclosing record already
	// matched by name
	if writer.Type() == avro.Recursive || reader.Type() == avro.Recursive {
		return writer.GetName() == reader.GetName()
	}

	if writer.Type() == avro.Union || reader.Type() == avro.Union {
		return canReadUnion(writer, reader)
	}

	switch reader.Type() {
	case avro.String:
		return writer.Type() == avro.String || writer.Type() == avro.Bytes
	case avro.Bytes:
		return writer.Type() == avro.Bytes || writer.Type() == avro.String
	case avro.Int:
		return writer.Type() == avro.Int
	case avro.Long:
		return writer.Type() == avro.Long || writer.Type() == avro.Int
	case avro.Float:
		return writer.Type() == avro.Float || writer.Type() == avro.Long || writer.Type() == avro.Int
	case avro.Double:
		return writer.Type() == avro.Double || writer.Type() == avro.Float ||
			writer.Type() == avro.Long || writer.Type() == avro.Int
	case avro.Boolean:
		return writer.Type() == avro.Boolean
	case avro.Null:
		return writer.Type() == avro.Null
	case avro.Array:
		w, ok := writer.(*avro.ArraySchema)
		if !ok {
			return false
		}
		return canRead(w.Items, reader.(*avro.ArraySchema).Items)
	case avro.Map:
		w, ok := writer.(*avro.MapSchema)
		if !ok {
			return false
		}
		return canRead(w.Values, reader.(*avro.MapSchema).Values)
	case avro.Enum:
		return canReadEnum(writer, reader.(*avro.EnumSchema))
	case avro.Fixed:
		w, ok := writer.(*avro.FixedSchema)
		if !ok {
			return false
		}
		r := reader.(*avro.FixedSchema)
		return w.Name == r.Name && w.Size == r.Size
	case avro.Record:
		return canReadRecord(writer, reader.(*avro.RecordSchema))
	default:
		return false
	}
}

func canReadUnion(writer, reader avro.Schema) bool {
	if w, ok := writer.(*avro.UnionSchema); ok {
		// every branch the writer may emit must be readable
		for _, branch := range w.Types {
			if !canRead(branch, reader) {
				return false
			}
		}
		return true
	}
	// reader union: the written type must match at least one branch
	r := reader.(*avro.UnionSchema)
	for _, branch := range r.Types {
		if canRead(writer, branch) {
			return true
		}
	}
	return false
}

func canReadEnum(writer avro.Schema, reader *avro.EnumSchema) bool {
	w, ok := writer.(*avro.EnumSchema)
	if !ok || w.Name != reader.Name {
		return false
	}
	readable := make(map[string]struct{}, len(reader.Symbols))
	for _, symbol := range reader.Symbols {
		readable[symbol] = struct{}{}
	}
	for _, symbol := range w.Symbols {
		if _, ok := readable[symbol]; !ok {
			return false
		}
	}
	return true
}

func canReadRecord(writer avro.Schema, reader *avro.RecordSchema) bool {
	w, ok := writer.(*avro.RecordSchema)
	if !ok || w.Name != reader.Name {
		return false
	}
	writerFields := make(map[string]*avro.SchemaField, len(w.Fields))
	for _, field := range w.Fields {
		writerFields[field.Name] = field
	}
	for _, readerField := range reader.Fields {
		writerField, present := writerFields[readerField.Name]
		if !present {
			if !hasDefault(readerField) {
				return false
			}
			continue
		}
		if !canRead(writerField.Type, readerField.Type) {
			return false
		}
	}
	return true
}

// hasDefault reports whether a reader field can be filled in when the
// writer never wrote it. The parsed form does not distinguish an
// explicit null default from an absent one, so a nullable type counts
// as defaulted.
func hasDefault(field *avro.SchemaField) bool {
	if field.Default != nil {
		return true
	}
	switch t := field.Type.(type) {
	case *avro.NullSchema:
		return true
	case *avro.UnionSchema:
		if len(t.Types) > 0 {
			if _, ok := t.Types[0].(*avro.NullSchema); ok {
				return true
			}
		}
	}
	return false
}
