package pipeline

import (
	"fmt"

	"github.com/siherrmann/poetry/model"
)

// MaxTopicsPerPoem is the number of topic slots of a poem.
const MaxTopicsPerPoem = 3

// EmbedFunc is a function that generates one embedding per text
type EmbedFunc func(texts []string) ([][]float32, error)

// TopicFunc fits a topic model on the texts
// Returns the topics with their words and, for every text, the numbers of its
// most relevant topics ordered by relevance (at most MaxTopicsPerPoem)
type TopicFunc func(texts []string) ([]model.Topic, [][]int, error)

// Pipeline combines topic modeling and embedding functions
type Pipeline struct {
	TopicModeler TopicFunc
	Embedder     EmbedFunc
	BatchSize    int // Texts per Embedder call, all at once if not positive
}

// NewPipeline creates a new processing pipeline
func NewPipeline(topicModeler TopicFunc, embedder EmbedFunc) *Pipeline {
	return &Pipeline{
		TopicModeler: topicModeler,
		Embedder:     embedder,
	}
}

// SetBatchSize sets the number of texts embedded per call
func (p *Pipeline) SetBatchSize(batchSize int) {
	p.BatchSize = batchSize
}

// AssignTopics fits the topic model on the poem texts and sets the topic slots of every poem
func (p *Pipeline) AssignTopics(poems []*model.Poem) ([]model.Topic, error) {
	if p.TopicModeler == nil {
		return nil, fmt.Errorf("no topic modeler set")
	}
	if len(poems) == 0 {
		return []model.Topic{}, nil
	}

	topics, assignments, err := p.TopicModeler(texts(poems))
	if err != nil {
		return nil, err
	}
	if len(assignments) != len(poems) {
		return nil, fmt.Errorf("topic modeler returned %d assignments for %d poems", len(assignments), len(poems))
	}

	for i, poem := range poems {
		assigned := assignments[i]
		if len(assigned) > MaxTopicsPerPoem {
			assigned = assigned[:MaxTopicsPerPoem]
		}
		poem.SetTopics(assigned)
	}

	return topics, nil
}

// Embed generates the embedding of every poem in batches of BatchSize
func (p *Pipeline) Embed(poems []*model.Poem) error {
	if p.Embedder == nil {
		return fmt.Errorf("no embedder set")
	}

	batchSize := p.BatchSize
	if batchSize <= 0 {
		batchSize = max(len(poems), 1)
	}

	for start := 0; start < len(poems); start += batchSize {
		batch := poems[start:min(start+batchSize, len(poems))]

		embeddings, err := p.Embedder(texts(batch))
		if err != nil {
			return err
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("embedder returned %d embeddings for %d texts", len(embeddings), len(batch))
		}

		for i, poem := range batch {
			poem.Embedding = embeddings[i]
		}
	}

	return nil
}

func texts(poems []*model.Poem) []string {
	result := make([]string, len(poems))
	for i, poem := range poems {
		result[i] = poem.Text
	}
	return result
}
