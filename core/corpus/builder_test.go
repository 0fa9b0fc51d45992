package corpus

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	riverLong   = "The river runs beneath the old bridge\nwhere swallows fly at dawn\nand every stone remembers\nthe songs we sang in mid June"
	riverMedium = "The river runs beneath the bridge\nwhere swallows fly at dawn\nand every stone remembers\nthe songs mid"
	riverShort  = "The river runs beneath the bridge\nwhere swallows fly\nand every stone remembers\nthe songs dawn"
)

func TestBuildCorpus(t *testing.T) {
	t.Run("Trailing newline collapses to one poem", func(t *testing.T) {
		docs := []model.RawDocument{
			{Filename: "a.txt", Content: "Roses are red\nViolets are blue"},
			{Filename: "b.txt", Content: "Roses are red\nViolets are blue\n"},
		}

		poems := BuildCorpus(docs)

		require.Len(t, poems, 1)
		assert.Equal(t, "a.txt", poems[0].Filename, "First occurrence in sorted order should be kept")
		assert.Equal(t, "Roses are red\nViolets are blue", poems[0].Text)
		assert.Equal(t, "Roses are red", poems[0].Title)
		assert.Equal(t, AssignID(poems[0].Text), poems[0].ID)
		assert.Nil(t, poems[0].Date)
	})

	t.Run("Empty texts are dropped", func(t *testing.T) {
		docs := []model.RawDocument{
			{Filename: "empty.txt", Content: "   \n \n"},
			{Filename: "poem.txt", Content: "morning light"},
		}

		poems := BuildCorpus(docs)

		require.Len(t, poems, 1)
		assert.Equal(t, "poem.txt", poems[0].Filename)
	})

	t.Run("Near duplicates keep the longest text", func(t *testing.T) {
		docs := []model.RawDocument{
			{Filename: "medium.txt", Content: riverMedium},
			{Filename: "long.txt", Content: "  " + riverLong + "\n"},
			{Filename: "short.txt", Content: riverShort},
			{Filename: "other.txt", Content: "Autumn leaves\nfall on quiet streets"},
		}

		poems := BuildCorpus(docs)

		require.Len(t, poems, 2)
		assert.Equal(t, "Autumn leaves", poems[0].Title)
		assert.Equal(t, riverLong, poems[1].Text)
		assert.Equal(t, "long.txt", poems[1].Filename)
	})

	t.Run("Date and title from normalized text", func(t *testing.T) {
		docs := []model.RawDocument{
			{Filename: "spring.txt", Content: "  12/03/1987  \nA poem about spring\nbirds return to the hills"},
		}

		poems := BuildCorpus(docs)

		require.Len(t, poems, 1)
		assert.Equal(t, "A poem about spring", poems[0].Title)
		require.NotNil(t, poems[0].Date)
		assert.Equal(t, time.Date(1987, time.March, 12, 0, 0, 0, 0, time.UTC), *poems[0].Date)
	})

	t.Run("Output is sorted by title", func(t *testing.T) {
		docs := []model.RawDocument{
			{Filename: "c.txt", Content: "Zebras at noon\nstriped shadows"},
			{Filename: "a.txt", Content: "Apples in winter\ncold and red"},
			{Filename: "b.txt", Content: "Morning mist\nover the lake"},
		}

		poems := BuildCorpus(docs)

		require.Len(t, poems, 3)
		assert.Equal(t, "Apples in winter", poems[0].Title)
		assert.Equal(t, "Morning mist", poems[1].Title)
		assert.Equal(t, "Zebras at noon", poems[2].Title)
		for _, poem := range poems {
			assert.True(t, poem.Identified())
		}
	})

	t.Run("No documents", func(t *testing.T) {
		assert.Empty(t, BuildCorpus(nil))
	})
}

func TestBuilderMetrics(t *testing.T) {
	metrics := helper.NewMetrics()
	builder := NewBuilder(model.DefaultPipelineConfig(), helper.NewLogger(slog.LevelInfo), metrics)

	poems := builder.Build([]model.RawDocument{
		{Filename: "empty.txt", Content: ""},
		{Filename: "a.txt", Content: "Roses are red\nViolets are blue"},
		{Filename: "b.txt", Content: "Roses are red\nViolets are blue\n"},
		{Filename: "long.txt", Content: riverLong},
		{Filename: "short.txt", Content: riverShort},
	})
	require.Len(t, poems, 2)

	path := filepath.Join(t.TempDir(), "poetry.prom")
	require.NoError(t, metrics.WriteToTextfile(path))
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), `poetry_poems_dropped_total{reason="empty"} 1`)
	assert.Contains(t, string(content), `poetry_poems_dropped_total{reason="exact_duplicate"} 1`)
	assert.Contains(t, string(content), `poetry_poems_dropped_total{reason="near_duplicate"} 1`)
	assert.Contains(t, string(content), "poetry_poems 2")
}
