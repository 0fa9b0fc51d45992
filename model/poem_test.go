package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoemTopics(t *testing.T) {
	t.Run("SetTopics fills slots in order", func(t *testing.T) {
		poem := &Poem{}
		poem.SetTopics([]int{4, 0, 7})

		topics := poem.Topics()
		require.NotNil(t, topics[0])
		require.NotNil(t, topics[1])
		require.NotNil(t, topics[2])
		assert.Equal(t, 4, *topics[0])
		assert.Equal(t, 0, *topics[1], "Topic zero must be kept, not treated as absent")
		assert.Equal(t, 7, *topics[2])
	})

	t.Run("Fewer than three topics leave slots empty", func(t *testing.T) {
		poem := &Poem{}
		poem.SetTopics([]int{1, 2, 3})
		poem.SetTopics([]int{9})

		require.NotNil(t, poem.Topic1)
		assert.Equal(t, 9, *poem.Topic1)
		assert.Nil(t, poem.Topic2)
		assert.Nil(t, poem.Topic3)
	})

	t.Run("Slots do not share memory", func(t *testing.T) {
		poem := &Poem{}
		poem.SetTopics([]int{1, 2})
		*poem.Topic1 = 5
		assert.Equal(t, 2, *poem.Topic2)
	})
}

func TestPoemIdentified(t *testing.T) {
	poem := &Poem{Text: "text"}
	assert.False(t, poem.Identified())

	poem.ID = uuid.New()
	assert.True(t, poem.Identified())
}
