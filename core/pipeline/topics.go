package pipeline

import (
	"fmt"
	"sort"

	"github.com/james-bowman/nlp"
	"github.com/siherrmann/poetry/model"
	"gonum.org/v1/gonum/mat"
)

// TopicWordsPerTopic is the number of words kept for every topic.
const TopicWordsPerTopic = 50

// LDATopicModeler creates a topic modeler using latent dirichlet allocation
// over word counts. Every text gets the (at most three) topics with the
// highest weight, topics without weight are left out.
func LDATopicModeler(config model.TopicsConfig) TopicFunc {
	return func(texts []string) ([]model.Topic, [][]int, error) {
		if config.Count <= 0 {
			return nil, nil, fmt.Errorf("topic count must be positive")
		}
		if len(texts) == 0 {
			return []model.Topic{}, [][]int{}, nil
		}

		vectoriser := nlp.NewCountVectoriser(config.StopWords...)
		lda := nlp.NewLatentDirichletAllocation(config.Count)
		if config.Iterations > 0 {
			lda.Iterations = config.Iterations
			lda.TransformationPasses = max(config.Iterations/2, 1)
		}

		pipeline := nlp.NewPipeline(vectoriser, lda)
		docsOverTopics, err := pipeline.FitTransform(texts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fit topic model: %w", err)
		}

		topics := sortedTopicWords(lda.Components(), vectoriser.Vocabulary, TopicWordsPerTopic)
		return topics, documentTopics(docsOverTopics, MaxTopicsPerPoem), nil
	}
}

// sortedTopicWords returns the n most significant words of every topic.
func sortedTopicWords(topicsOverWords mat.Matrix, vocabulary map[string]int, n int) []model.Topic {
	vocab := make([]string, len(vocabulary))
	for word, index := range vocabulary {
		vocab[index] = word
	}

	topicCount, wordCount := topicsOverWords.Dims()
	topics := make([]model.Topic, topicCount)
	for topic := 0; topic < topicCount; topic++ {
		words := make([]model.TopicWord, 0, wordCount)
		for word := 0; word < wordCount && word < len(vocab); word++ {
			words = append(words, model.TopicWord{
				Word:  vocab[word],
				Score: topicsOverWords.At(topic, word),
			})
		}
		sort.SliceStable(words, func(i, j int) bool {
			return words[i].Score > words[j].Score
		})
		if len(words) > n {
			words = words[:n]
		}
		topics[topic] = model.Topic{Number: topic, Words: words}
	}

	return topics
}

// documentTopics returns for every document (column) the numbers of its
// n heaviest topics (rows), heaviest first.
func documentTopics(docsOverTopics mat.Matrix, n int) [][]int {
	topicCount, docCount := docsOverTopics.Dims()
	assignments := make([][]int, docCount)
	for doc := 0; doc < docCount; doc++ {
		ranked := make([]int, 0, topicCount)
		for topic := 0; topic < topicCount; topic++ {
			if docsOverTopics.At(topic, doc) > 0 {
				ranked = append(ranked, topic)
			}
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return docsOverTopics.At(ranked[i], doc) > docsOverTopics.At(ranked[j], doc)
		})
		if len(ranked) > n {
			ranked = ranked[:n]
		}
		assignments[doc] = ranked
	}

	return assignments
}
