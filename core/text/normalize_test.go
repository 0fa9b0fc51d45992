package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("Trims lines and collapses spaces", func(t *testing.T) {
		raw := "  Hello world  \n\n  it is   raining \n"
		assert.Equal(t, "Hello world\n\nit is raining", Normalize(raw))
	})

	t.Run("Trailing newline does not change the text", func(t *testing.T) {
		a := Normalize("Roses are red\nViolets are blue")
		b := Normalize("Roses are red\nViolets are blue\n")
		assert.Equal(t, a, b)
	})

	t.Run("Whitespace only text becomes empty", func(t *testing.T) {
		assert.Equal(t, "", Normalize(" \n\t \n  "))
	})

	t.Run("Tabs inside lines are kept", func(t *testing.T) {
		assert.Equal(t, "one\ttwo", Normalize("one\ttwo"))
	})

	t.Run("Idempotent", func(t *testing.T) {
		inputs := []string{
			"  Hello world  \n\n  it is   raining \n",
			"\n\n   a  b   c\n   \n d \n",
			"\t tab first line\n  second  ",
			"",
			"already clean\ntext",
		}
		for _, input := range inputs {
			once := Normalize(input)
			assert.Equal(t, once, Normalize(once), "Normalize should be idempotent for %q", input)
		}
	})
}
