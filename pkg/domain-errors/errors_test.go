package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	t.Run("new error carries code and message", func(t *testing.T) {
		err := New(CodeNotFound, "registration not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
		assert.Equal(t, "registration not found", MessageOf(err))
	})

	t.Run("wrap keeps underlying error reachable", func(t *testing.T) {
		base := errors.New("disk full")
		err := Wrap(base, CodeInternal, "failed to persist registration")
		require.ErrorIs(t, err, base)
		assert.True(t, Is(err, CodeInternal))
	})

	t.Run("code survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("engine: %w", New(CodeConfirmationRequired, "confirm"))
		assert.Equal(t, CodeConfirmationRequired, CodeOf(err))
	})

	t.Run("plain errors default to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
		assert.Empty(t, MessageOf(errors.New("boom")))
	})
}
