// File: cmd/layouts_test.go
package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

func TestLayoutsCmd(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		out, err := executeCommand(t, newFakeSinkProvider(), nil, "layouts")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, len(keyboard.Names()))
		for i, name := range keyboard.Names() {
			assert.True(t, strings.HasPrefix(lines[i], name), lines[i])
		}
	})

	t.Run("Named", func(t *testing.T) {
		out, err := executeCommand(t, newFakeSinkProvider(), nil, "layouts", "QWERTY")
		require.NoError(t, err)
		assert.Contains(t, out, "qwerty/lower (")
		assert.Contains(t, out, "qwerty/upper (")
		assert.Contains(t, out, "q w e r t y u i o p")
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := executeCommand(t, newFakeSinkProvider(), nil, "layouts", "dvorak")
		assert.ErrorIs(t, err, keyboard.ErrUnknownLayoutSet)
	})

	t.Run("File", func(t *testing.T) {
		path := createTempConfig(t, "name: pair\nlayouts:\n  - grid: \"a b\\nc d\"\n")
		out, err := executeCommand(t, newFakeSinkProvider(), nil, "layouts", "--file", path)
		require.NoError(t, err)
		assert.Equal(t, "pair/layout 1 (4 keys, 2x2)\na b\nc d\n\n", out)
	})

	t.Run("TooManyArgs", func(t *testing.T) {
		_, err := executeCommand(t, newFakeSinkProvider(), nil, "layouts", "qwerty", "azerty")
		assert.Error(t, err)
	})
}
