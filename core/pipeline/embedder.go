package pipeline

import (
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
)

// DefaultEmbedder creates an embedder using a real sentence transformer model
// Uses the all-MiniLM-L6-v2 model which produces 384-dimensional embeddings
func DefaultEmbedder() (EmbedFunc, error) {
	config := model.DefaultPipelineConfig()
	return NewEmbedder(config.Embedding, config.ModelsDir)
}

// NewEmbedder creates an embedder for the configured sentence transformer model,
// downloading it into modelsDir if needed.
// Every embedding is checked against the configured dimension.
func NewEmbedder(config model.EmbeddingConfig, modelsDir string) (EmbedFunc, error) {
	// Prepare model (download if needed)
	modelPath, err := helper.PrepareModelIn(modelsDir, config.Model, config.OnnxFile)
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	// Create sentence transformers pipeline configuration
	pipelineConfig := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "poetry-embedder",
	}
	sentencePipeline, err := hugot.NewPipeline(session, pipelineConfig)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return func(texts []string) ([][]float32, error) {
		if len(texts) == 0 {
			return [][]float32{}, nil
		}

		result, err := sentencePipeline.RunPipeline(texts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}

		if len(result.Embeddings) != len(texts) {
			return nil, fmt.Errorf("generated %d embeddings for %d texts", len(result.Embeddings), len(texts))
		}

		for i, embedding := range result.Embeddings {
			if config.Dimension > 0 && len(embedding) != config.Dimension {
				return nil, fmt.Errorf("embedding %d has dimension %d, expected %d", i, len(embedding), config.Dimension)
			}
		}

		return result.Embeddings, nil
	}, nil
}
