// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/humantyper/internal/config"
	"github.com/xkilldash9x/humantyper/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd(&defaultSinkProvider{})

// newRootCmd builds the command tree. Tests build their own tree through it.
func newRootCmd(provider sinkProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "humantyper",
		Short: "humantyper types text the way a person would.",
		Long: `humantyper synthesizes keystrokes with human timing and plausible typos.
Mistyped keys are chosen from physical neighbors on the keyboard layout,
then corrected with a backspace after a short hesitation.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(cmd, v); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "humantyper"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting humantyper", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml or ~/.humantyper/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error). Overrides config/env")
	cmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	cmd.AddCommand(newTypeCmd(provider))
	cmd.AddCommand(newLayoutsCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command with ctx, which should be cancelled on
// interrupt so an in-flight typing session stops between keystrokes.
func Execute(ctx context.Context) error {
	defer observability.Sync()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

// initializeConfig reads the config file and environment into v, then binds
// the flags of the executing command over them.
func initializeConfig(cmd *cobra.Command, v *viper.Viper) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".humantyper"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("HUMANTYPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars
	}

	for flag, key := range flagBindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag --%s: %w", flag, err)
			}
		}
	}
	return nil
}

// flagBindings maps command flags onto configuration keys.
// The typer and sink selection flags of the type command are applied
// through the config setters instead; see applyTypeFlagOverrides.
var flagBindings = map[string]string{
	"remote-url":  "sink.remote_url",
	"headless":    "sink.headless",
	"stealth":     "sink.stealth",
	"timeout":     "sink.timeout",
	"trace":       "tracing.enabled",
	"log-level":   "logger.level",
}

// getConfigFromContext returns the configuration loaded by the root command.
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not found in command context")
	}
	return cfg, nil
}
