// File: cmd/root_test.go
package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/humantyper/internal/config"
)

func TestRootCmd_VersionFlag(t *testing.T) {
	resetForTest(t)
	root := newRootCmd(newFakeSinkProvider())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "humantyper version "+Version+"\n", out.String())
}

func TestRootCmd_NoArgs(t *testing.T) {
	out, err := executeCommand(t, newFakeSinkProvider(), nil)
	require.NoError(t, err)
	assert.Contains(t, out, "humantyper synthesizes keystrokes")
	assert.Contains(t, out, "layouts")
}

func TestVersionCmd(t *testing.T) {
	out, err := executeCommand(t, newFakeSinkProvider(), nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "humantyper "+Version)
}

func TestInitializeConfig_Precedence(t *testing.T) {
	resetForTest(t)
	cfgFile = createTempConfig(t, `
typer:
  layout: azerty
  average_wpm: 120
sink:
  driver: json
  timeout: 3s
`)
	t.Setenv("HUMANTYPER_TYPER_SEED", "7")
	t.Setenv("HUMANTYPER_TYPER_AVERAGE_WPM", "130")

	cmd := newTypeCmd(newFakeSinkProvider())
	require.NoError(t, cmd.ParseFlags([]string{"--wpm", "150", "--selector", "#q", "--timeout", "2s"}))

	v := viper.New()
	config.SetDefaults(v)
	require.NoError(t, initializeConfig(cmd, v))
	cfg, err := config.NewConfigFromViper(v)
	require.NoError(t, err)

	// File over defaults.
	assert.Equal(t, "azerty", cfg.Typer().Layout)
	assert.Equal(t, config.DriverJSON, cfg.Sink().Driver)
	// Env over file.
	assert.Equal(t, int64(7), cfg.Typer().Seed)
	assert.Equal(t, 130.0, cfg.Typer().AverageWPM)
	// Bound flags over env.
	assert.Equal(t, "2s", cfg.Sink().Timeout.String())
	// Unchanged flags leave lower layers alone.
	assert.True(t, cfg.Sink().Headless)

	// Override flags land through the setters.
	require.NoError(t, applyTypeFlagOverrides(cmd, cfg))
	assert.Equal(t, 150.0, cfg.Typer().AverageWPM)
	assert.Equal(t, "#q", cfg.Sink().Selector)
	assert.Equal(t, "azerty", cfg.Typer().Layout)
	assert.Equal(t, int64(7), cfg.Typer().Seed)
}

func TestInitializeConfig_MalformedFile(t *testing.T) {
	resetForTest(t)
	cfgFile = createTempConfig(t, "typer: [unclosed\n")

	err := initializeConfig(&cobra.Command{}, viper.New())
	assert.ErrorContains(t, err, "error reading config file")
}

func TestGetConfigFromContext(t *testing.T) {
	_, err := getConfigFromContext(context.Background())
	assert.Error(t, err)

	want := config.NewDefaultConfig()
	got, err := getConfigFromContext(context.WithValue(context.Background(), configKey, want))
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	_, err := executeCommand(t, newFakeSinkProvider(), nil, "type", "--wpm=-5", "hello")
	require.Error(t, err)
	assert.ErrorContains(t, err, "average_wpm must be a positive number")
}
