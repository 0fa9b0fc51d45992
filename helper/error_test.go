package helper

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	t.Run("Wraps error with operation", func(t *testing.T) {
		err := NewError("scan", fmt.Errorf("no rows"))
		require.Error(t, err)
		assert.Equal(t, "scan: no rows", err.Error())
	})

	t.Run("Returns nil for nil error", func(t *testing.T) {
		assert.NoError(t, NewError("scan", nil))
	})

	t.Run("Keeps sentinel errors reachable", func(t *testing.T) {
		err := NewError("read table", NewError("detect format", ErrUnsupportedFormat))
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), "Expected wrapped sentinel to be found")

		var wrapped *Error
		require.True(t, errors.As(err, &wrapped))
		assert.Equal(t, "read table", wrapped.Operation)
	})
}
