package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingString(t *testing.T) {
	t.Run("Formats bracketed space separated list", func(t *testing.T) {
		e := Embedding{0.5, -1.25, 3}
		assert.Equal(t, "[0.5 -1.25 3]", e.String())
	})

	t.Run("Nil embedding formats as empty string", func(t *testing.T) {
		var e Embedding
		assert.Equal(t, "", e.String())
	})
}

func TestParseEmbedding(t *testing.T) {
	t.Run("Parses output of String", func(t *testing.T) {
		original := Embedding{0.1, 0.2, -0.3}
		parsed, err := ParseEmbedding(original.String())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("Parses numpy style output with line breaks", func(t *testing.T) {
		parsed, err := ParseEmbedding("[ 1.5e-01  2.0e+00\n -3.0e-01]")
		require.NoError(t, err)
		require.Len(t, parsed, 3)
		assert.InDelta(t, 0.15, parsed[0], 1e-6)
		assert.InDelta(t, 2.0, parsed[1], 1e-6)
		assert.InDelta(t, -0.3, parsed[2], 1e-6)
	})

	t.Run("Empty input yields nil", func(t *testing.T) {
		for _, input := range []string{"", "[]", "  [ ]  "} {
			parsed, err := ParseEmbedding(input)
			assert.NoError(t, err)
			assert.Nil(t, parsed, "Expected nil embedding for %q", input)
		}
	})

	t.Run("Invalid value returns error", func(t *testing.T) {
		_, err := ParseEmbedding("[0.1 abc]")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "abc")
	})
}
