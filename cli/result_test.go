package cli

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandError(t *testing.T) {
	t.Run("implements error interface", func(t *testing.T) {
		err := NewCommandError(1)
		assert.Error(t, err)
	})

	t.Run("returns exit code", func(t *testing.T) {
		err := NewCommandError(42)
		assert.Equal(t, err.ExitCode(), 42)
	})

	t.Run("found through wrapping", func(t *testing.T) {
		err := fmt.Errorf("balance: %w", NewCommandError(2))
		assert.Equal(t, 2, exitCode(err))
	})
}
