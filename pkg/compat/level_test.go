package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		token string
		want  Level
	}{
		{"NONE", LevelNone},
		{"BACKWARD", LevelBackward},
		{"FORWARD", LevelForward},
		{"FULL", LevelFull},
		{"BACKWARD_TRANSITIVE", LevelBackwardTransitive},
		{"FORWARD_TRANSITIVE", LevelForwardTransitive},
		{"FULL_TRANSITIVE", LevelFullTransitive},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseLevel(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.token, got.String())
		})
	}
}

func TestParseLevelRejectsUnknownTokens(t *testing.T) {
	for _, token := range []string{"", "backward", "BOTH", "FULL_TRANSITIVE "} {
		_, err := ParseLevel(token)
		assert.Error(t, err, "token %q", token)
	}
}

func TestTransitive(t *testing.T) {
	assert.False(t, LevelNone.Transitive())
	assert.False(t, LevelBackward.Transitive())
	assert.False(t, LevelForward.Transitive())
	assert.False(t, LevelFull.Transitive())
	assert.True(t, LevelBackwardTransitive.Transitive())
	assert.True(t, LevelForwardTransitive.Transitive())
	assert.True(t, LevelFullTransitive.Transitive())
}
