package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPipelineConfig(t *testing.T) {
	t.Run("Returns correct default values", func(t *testing.T) {
		config := DefaultPipelineConfig()

		assert.Equal(t, 20, config.Window, "Default Window should be 20")
		assert.Equal(t, 70, config.Cutoff, "Default Cutoff should be 70")
		assert.Equal(t, 5, config.TitleMinLength, "Default TitleMinLength should be 5")
		assert.Equal(t, 18, config.TitleMaxWords, "Default TitleMaxWords should be 18")
		assert.Equal(t, "brunolugano.poetry", config.Namespace)
		assert.Equal(t, []string{".txt", ".docx"}, config.Extensions)
		assert.Equal(t, 384, config.Embedding.Dimension, "all-MiniLM-L6-v2 produces 384-dimensional embeddings")
	})

	t.Run("Defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultPipelineConfig().Validate())
	})

	t.Run("Can be modified after creation", func(t *testing.T) {
		config := DefaultPipelineConfig()

		config.Window = 5
		config.Cutoff = 90

		assert.Equal(t, 5, config.Window)
		assert.Equal(t, 90, config.Cutoff)
	})
}

func TestLoadPipelineConfig(t *testing.T) {
	t.Run("Empty path returns defaults", func(t *testing.T) {
		config, err := LoadPipelineConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultPipelineConfig(), config)
	})

	t.Run("File values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "poetry.yaml")
		content := `
window: 10
cutoff: 85
topics:
  count: 4
  stop_words: [the, and]
embedding:
  model: sentence-transformers/distiluse-base-multilingual-cased-v2
  dimension: 512
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		config, err := LoadPipelineConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 10, config.Window)
		assert.Equal(t, 85, config.Cutoff)
		assert.Equal(t, 4, config.Topics.Count)
		assert.Equal(t, []string{"the", "and"}, config.Topics.StopWords)
		assert.Equal(t, 512, config.Embedding.Dimension)
		assert.Equal(t, "sentence-transformers/distiluse-base-multilingual-cased-v2", config.Embedding.Model)

		// Untouched keys keep their defaults
		assert.Equal(t, 18, config.TitleMaxWords)
		assert.Equal(t, 50, config.Topics.Iterations)
		assert.Equal(t, 32, config.Embedding.BatchSize)
	})

	t.Run("Invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "poetry.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cutoff: 150\n"), 0600))

		_, err := LoadPipelineConfig(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cutoff")
	})

	t.Run("Missing file returns error", func(t *testing.T) {
		_, err := LoadPipelineConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}
