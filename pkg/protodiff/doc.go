// Package protodiff implements structural diffing of two parsed
// Protocol Buffers documents for compatibility checking.
//
// Each document is reduced to an index of its messages, enums and
// services keyed by dotted scope path. A Checker then evaluates eight
// rules (no using reserved fields, no removing reserved fields, no
// removing fields without reserve, no changing field IDs, no changing
// field types, no changing field names, no removing RPCs, no changing
// RPC signatures) over the two indexes. Every rule returns an exact
// issue count rather than stopping at the first violation.
package protodiff
