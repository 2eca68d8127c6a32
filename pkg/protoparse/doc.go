// Package protoparse provides a hand-written scanner and recursive
// descent parser for Protocol Buffers schema text, along with a
// canonical printer.
//
// The parser covers the subset of proto2/proto3 needed for structural
// diffing: messages (including nested types), scalar and map fields,
// oneof groups, reserved statements, enums, and services with
// streaming RPCs. Extensions and group fields are not supported.
//
// # Usage Example
//
// Parse a schema and print its canonical form:
//
//	file, err := protoparse.Parse(strings.NewReader(source))
//	if err != nil {
//		return err
//	}
//	canonical := protoparse.Format(file)
package protoparse
