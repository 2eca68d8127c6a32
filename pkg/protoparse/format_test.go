package protoparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRoundTrip(t *testing.T) {
	f, err := Parse(sampleSchema)
	require.NoError(t, err)

	first := Format(f)
	reparsed, err := Parse(first)
	require.NoError(t, err)
	second := Format(reparsed)

	assert.Equal(t, first, second)
}

func TestFormatStableUnderWhitespace(t *testing.T) {
	a, err := Parse("message M {\n  string name = 1;\n}")
	require.NoError(t, err)
	b, err := Parse("message    M{string name=1;}")
	require.NoError(t, err)

	assert.Equal(t, Format(a), Format(b))
}

func TestFormatStartsWithProvenanceComment(t *testing.T) {
	f, err := Parse(`syntax = "proto3";`)
	require.NoError(t, err)
	out := Format(f)
	assert.True(t, strings.HasPrefix(out, "//\n"))
	assert.Contains(t, out, "syntax = \"proto3\";\n")
}

func TestFormatReservedAndStreams(t *testing.T) {
	f, err := Parse(`
message M {
  reserved 3, 5 to 9;
  reserved "old";
}
service S {
  rpc Watch (stream Req) returns (stream Resp);
}
`)
	require.NoError(t, err)
	out := Format(f)
	assert.Contains(t, out, "reserved 3, 5 to 9;")
	assert.Contains(t, out, `reserved "old";`)
	assert.Contains(t, out, "rpc Watch (stream Req) returns (stream Resp);")
}
