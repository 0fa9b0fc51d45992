package helper

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
	})
	return slog.New(handler), &buf
}

func TestPrettyHandler(t *testing.T) {
	t.Run("Pipeline attributes are rendered as json", func(t *testing.T) {
		logger, buf := newBufferLogger(slog.LevelInfo)

		logger.Info("Number of poems", slog.Int("poems", 42), slog.String("source", "autumn.txt"))

		output := buf.String()
		assert.Contains(t, output, "INFO:")
		assert.Contains(t, output, "Number of poems")
		assert.Contains(t, output, `"poems": 42`)
		assert.Contains(t, output, `"source": "autumn.txt"`)
		assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, output, "Expected a [15:04:05.000] timestamp")
	})

	t.Run("Errors are rendered as their message", func(t *testing.T) {
		logger, buf := newBufferLogger(slog.LevelInfo)

		logger.Error("Upload failed", slog.Any("error", NewError("copy poem", errors.New("duplicate key"))))

		assert.Contains(t, buf.String(), "ERROR:")
		assert.Contains(t, buf.String(), "copy poem: duplicate key")
	})

	t.Run("Debug is filtered below the handler level", func(t *testing.T) {
		logger, buf := newBufferLogger(slog.LevelInfo)

		logger.Debug("Couldn't find date", slog.String("line", "a - b"))
		assert.Empty(t, buf.String())

		verbose, verboseBuf := newBufferLogger(slog.LevelDebug)
		verbose.Debug("Couldn't find date", slog.String("line", "a - b"))
		assert.Contains(t, verboseBuf.String(), "DEBUG:")
		assert.Contains(t, verboseBuf.String(), "a - b")
	})

	t.Run("Bound attributes appear on every line", func(t *testing.T) {
		logger, buf := newBufferLogger(slog.LevelInfo)

		logger.With(slog.String("stage", "topics")).Warn("Topic without words", slog.Int("number", 3))

		output := buf.String()
		assert.Contains(t, output, "WARN:")
		assert.Contains(t, output, `"stage": "topics"`)
		assert.Contains(t, output, `"number": 3`)
	})

	t.Run("Record without attributes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		err := handler.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "Table truncated successfully", 0))
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "Table truncated successfully")
		assert.Contains(t, buf.String(), "{}")
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Info logger", func(t *testing.T) {
		logger := NewLogger(slog.LevelInfo)
		require.NotNil(t, logger)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
		_, ok := logger.Handler().(*PrettyHandler)
		assert.True(t, ok, "Expected the logger to use a PrettyHandler")
	})

	t.Run("Verbose logger", func(t *testing.T) {
		logger := NewLogger(slog.LevelDebug)
		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
	})
}
