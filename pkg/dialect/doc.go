// Package dialect implements the three schema dialects the registry
// understands: Avro, JSON Schema and Protocol Buffers.
//
// Each dialect validates raw schema text, produces a canonical textual
// form, evaluates compatibility against a version history, and emits
// search tokens. Dialect detection tries the parsers in a fixed
// priority order (Avro, then JSON Schema, then Protobuf); the first
// parser to accept the input wins. Inputs acceptable to more than one
// dialect are resolved purely by that ordering.
package dialect
