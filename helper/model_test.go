package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareModelIn(t *testing.T) {
	t.Run("Existing model in a custom directory is reused", func(t *testing.T) {
		modelsDir := t.TempDir()
		expectedPath := filepath.Join(modelsDir, "sentence-transformers_all-MiniLM-L6-v2")
		require.NoError(t, os.MkdirAll(expectedPath, 0750))

		path, err := PrepareModelIn(modelsDir, "sentence-transformers/all-MiniLM-L6-v2", "onnx/model.onnx")
		assert.NoError(t, err, "Expected PrepareModelIn to not download an existing model")
		assert.Equal(t, expectedPath, path)
	})

	t.Run("Model name without organization", func(t *testing.T) {
		modelsDir := t.TempDir()
		expectedPath := filepath.Join(modelsDir, "poem-embedder")
		require.NoError(t, os.MkdirAll(expectedPath, 0750))

		path, err := PrepareModelIn(modelsDir, "poem-embedder", "")
		assert.NoError(t, err)
		assert.Equal(t, expectedPath, path)
	})

	t.Run("Missing model is downloaded into the custom directory", func(t *testing.T) {
		if testing.Short() {
			t.Skip("Skipping PrepareModelIn download test in short mode (requires model download)")
		}

		modelsDir := filepath.Join(t.TempDir(), "nested", "models")

		path, err := PrepareModelIn(modelsDir, "sentence-transformers/all-MiniLM-L6-v2", "onnx/model.onnx")
		require.NoError(t, err, "Expected the model download to succeed")
		assert.DirExists(t, path)
		assert.Equal(t, modelsDir, filepath.Dir(path), "Expected the model below the custom directory")
	})
}

func TestPrepareModel(t *testing.T) {
	t.Run("Uses the default directory", func(t *testing.T) {
		expectedPath := filepath.Join(DefaultModelDir, "test_default-dir")
		require.NoError(t, os.MkdirAll(expectedPath, 0750))
		defer os.RemoveAll(expectedPath)

		path, err := PrepareModel("test/default-dir", "")
		assert.NoError(t, err)
		assert.Equal(t, expectedPath, path)
	})
}
