package pipeline

import (
	"testing"

	"github.com/siherrmann/poetry/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDocumentTopics(t *testing.T) {
	t.Run("Heaviest topics first", func(t *testing.T) {
		// 4 topics x 2 documents
		docsOverTopics := mat.NewDense(4, 2, []float64{
			0.1, 0.0,
			0.5, 0.0,
			0.3, 0.9,
			0.1, 0.1,
		})

		assignments := documentTopics(docsOverTopics, 3)

		require.Len(t, assignments, 2)
		assert.Equal(t, []int{1, 2, 0}, assignments[0], "Equal weights keep topic order")
		assert.Equal(t, []int{2, 3}, assignments[1], "Topics without weight are left out")
	})

	t.Run("Fewer topics than slots", func(t *testing.T) {
		docsOverTopics := mat.NewDense(2, 1, []float64{0.2, 0.8})
		assert.Equal(t, [][]int{{1, 0}}, documentTopics(docsOverTopics, 3))
	})
}

func TestSortedTopicWords(t *testing.T) {
	vocabulary := map[string]int{"sea": 0, "wave": 1, "field": 2}
	// 2 topics x 3 words
	topicsOverWords := mat.NewDense(2, 3, []float64{
		0.6, 0.3, 0.1,
		0.0, 0.2, 0.8,
	})

	topics := sortedTopicWords(topicsOverWords, vocabulary, 2)

	require.Len(t, topics, 2)
	assert.Equal(t, 0, topics[0].Number)
	assert.Equal(t, []model.TopicWord{{Word: "sea", Score: 0.6}, {Word: "wave", Score: 0.3}}, topics[0].Words)
	assert.Equal(t, 1, topics[1].Number)
	assert.Equal(t, []model.TopicWord{{Word: "field", Score: 0.8}, {Word: "wave", Score: 0.2}}, topics[1].Words)
}

func TestLDATopicModeler(t *testing.T) {
	texts := []string{
		"the sea and the waves and the salt wind over the sea",
		"waves break on the shore of the grey sea",
		"sailors sing of the sea and the storm",
		"wheat grows in the golden field under the sun",
		"the farmer walks the field of wheat at dawn",
		"golden wheat and green field and the harvest",
	}

	t.Run("Assigns up to three topics per text", func(t *testing.T) {
		modeler := LDATopicModeler(model.TopicsConfig{Count: 4, Iterations: 20, StopWords: []string{"the", "and", "of"}})

		topics, assignments, err := modeler(texts)

		require.NoError(t, err)
		assert.Len(t, topics, 4)
		require.Len(t, assignments, len(texts))
		for _, assigned := range assignments {
			assert.LessOrEqual(t, len(assigned), MaxTopicsPerPoem)
			seen := map[int]bool{}
			for _, topic := range assigned {
				assert.GreaterOrEqual(t, topic, 0)
				assert.Less(t, topic, 4)
				assert.False(t, seen[topic], "Topic should be assigned once")
				seen[topic] = true
			}
		}
		for _, topic := range topics {
			assert.NotEmpty(t, topic.Words)
			for _, word := range topic.Words {
				assert.NotContains(t, []string{"the", "and", "of"}, word.Word)
			}
		}
	})

	t.Run("No texts", func(t *testing.T) {
		modeler := LDATopicModeler(model.TopicsConfig{Count: 2})
		topics, assignments, err := modeler(nil)
		require.NoError(t, err)
		assert.Empty(t, topics)
		assert.Empty(t, assignments)
	})

	t.Run("Invalid topic count", func(t *testing.T) {
		modeler := LDATopicModeler(model.TopicsConfig{Count: 0})
		_, _, err := modeler(texts)
		assert.Error(t, err)
	})
}
