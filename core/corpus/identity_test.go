package corpus

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAssignID(t *testing.T) {
	t.Run("Namespace is derived from the project name", func(t *testing.T) {
		assert.Equal(t, uuid.MustParse("4a890f37-2189-503b-9ab5-7f03c4aa401f"), PoemNamespace)
	})

	t.Run("Id is stable across runs", func(t *testing.T) {
		id := AssignID("Roses are red\nViolets are blue")
		assert.Equal(t, uuid.MustParse("04e49781-5e81-5d54-a3f9-3548d0ccf2e1"), id)
		assert.Equal(t, uuid.Version(5), id.Version())
	})

	t.Run("Same text same id", func(t *testing.T) {
		assert.Equal(t, AssignID("a poem"), AssignID("a poem"))
		assert.NotEqual(t, AssignID("a poem"), AssignID("another poem"))
	})

	t.Run("Custom namespace changes ids", func(t *testing.T) {
		namespace := NewNamespace("example.org")
		assert.NotEqual(t, AssignID("a poem"), AssignIDIn(namespace, "a poem"))
	})
}
