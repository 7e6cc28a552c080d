// File: internal/config/typer_config.go
// This file defines the TyperConfig struct, which selects the keyboard the
// typist is imagined to sit at and how fast they type. Together with the
// random seed these settings fully determine a reproducible session.
package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"
)

// TyperConfig holds the tunable parameters of the typist.
type TyperConfig struct {
	// Layout names a built-in layout set ("qwerty", "azerty").
	Layout string `mapstructure:"layout" yaml:"layout"`
	// LayoutFile overrides Layout with a YAML layout set.
	LayoutFile string `mapstructure:"layout_file" yaml:"layout_file"`
	// AverageWPM is the mean typing speed in words per minute.
	AverageWPM float64 `mapstructure:"average_wpm" yaml:"average_wpm"`
	// Seed makes sessions reproducible. Zero seeds from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

func setTyperDefaults(v *viper.Viper) {
	v.SetDefault("typer.layout", "qwerty")
	v.SetDefault("typer.layout_file", "")
	v.SetDefault("typer.average_wpm", 190.0)
	v.SetDefault("typer.seed", 0)
}

// Validate checks the typer configuration.
func (t *TyperConfig) Validate() error {
	if t.AverageWPM <= 0 || math.IsNaN(t.AverageWPM) || math.IsInf(t.AverageWPM, 0) {
		return fmt.Errorf("average_wpm must be a positive number")
	}
	if t.LayoutFile == "" && !builtinLayout(t.Layout) {
		return fmt.Errorf("layout %q is not a built-in layout set and no layout_file is given", t.Layout)
	}
	return nil
}
