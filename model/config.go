package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineConfig represents the configuration of a pipeline run
type PipelineConfig struct {
	// Near-duplicate elimination
	Window int `yaml:"window"` // Neighbours compared on each side
	Cutoff int `yaml:"cutoff"` // Minimum token set score (0-100) of a duplicate

	// Title extraction
	TitleMinLength int `yaml:"title_min_length"`
	TitleMaxWords  int `yaml:"title_max_words"`

	// Identity
	Namespace string `yaml:"namespace"` // Name of the uuid v5 namespace of poem ids

	// Document source
	Extensions []string `yaml:"extensions"`

	Topics    TopicsConfig    `yaml:"topics"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	ModelsDir string          `yaml:"models_dir"`
}

// TopicsConfig configures the topic model
type TopicsConfig struct {
	Count      int      `yaml:"count"`
	Iterations int      `yaml:"iterations"`
	StopWords  []string `yaml:"stop_words"`
}

// EmbeddingConfig configures the sentence embedding model
type EmbeddingConfig struct {
	Model     string `yaml:"model"`
	OnnxFile  string `yaml:"onnx_file"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// DefaultPipelineConfig returns the configuration used when no file is given
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Window:         20,
		Cutoff:         70,
		TitleMinLength: 5,
		TitleMaxWords:  18,
		Namespace:      "brunolugano.poetry",
		Extensions:     []string{".txt", ".docx"},
		Topics: TopicsConfig{
			Count:      10,
			Iterations: 50,
		},
		Embedding: EmbeddingConfig{
			Model:     "sentence-transformers/all-MiniLM-L6-v2",
			OnnxFile:  "onnx/model.onnx",
			Dimension: 384,
			BatchSize: 32,
		},
		ModelsDir: "./models",
	}
}

// LoadPipelineConfig reads a yaml file on top of the defaults.
// Keys missing in the file keep their default value.
func LoadPipelineConfig(path string) (PipelineConfig, error) {
	config := DefaultPipelineConfig()
	if path == "" {
		return config, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(content, &config)
	if err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, config.Validate()
}

// Validate checks the values that would make a stage misbehave
func (c PipelineConfig) Validate() error {
	if c.Window < 0 {
		return fmt.Errorf("window must not be negative, got %d", c.Window)
	}
	if c.Cutoff < 0 || c.Cutoff > 100 {
		return fmt.Errorf("cutoff must be between 0 and 100, got %d", c.Cutoff)
	}
	if c.TitleMaxWords <= 0 {
		return fmt.Errorf("title_max_words must be positive, got %d", c.TitleMaxWords)
	}
	if c.Namespace == "" {
		return fmt.Errorf("namespace must not be empty")
	}
	if c.Topics.Count <= 0 {
		return fmt.Errorf("topics.count must be positive, got %d", c.Topics.Count)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding.dimension must be positive, got %d", c.Embedding.Dimension)
	}
	return nil
}
