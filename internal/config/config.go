// File: internal/config/config.go
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Typer() TyperConfig
	Sink() SinkConfig
	Tracing() TracingConfig

	// Typer Setters
	SetTyperLayout(string)
	SetTyperLayoutFile(string)
	SetTyperAverageWPM(float64)
	SetTyperSeed(int64)

	// Sink Setters
	SetSinkDriver(string)
	SetSinkURL(string)
	SetSinkSelector(string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	TyperCfg   TyperConfig   `mapstructure:"typer" yaml:"typer"`
	SinkCfg    SinkConfig    `mapstructure:"sink" yaml:"sink"`
	TracingCfg TracingConfig `mapstructure:"tracing" yaml:"tracing"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Typer() TyperConfig     { return c.TyperCfg }
func (c *Config) Sink() SinkConfig       { return c.SinkCfg }
func (c *Config) Tracing() TracingConfig { return c.TracingCfg }

// --- Interface Method Implementations (Setters) ---

// Typer Setters
func (c *Config) SetTyperLayout(name string)     { c.TyperCfg.Layout = name }
func (c *Config) SetTyperLayoutFile(path string) { c.TyperCfg.LayoutFile = path }
func (c *Config) SetTyperAverageWPM(wpm float64) { c.TyperCfg.AverageWPM = wpm }
func (c *Config) SetTyperSeed(seed int64)        { c.TyperCfg.Seed = seed }

// Sink Setters
func (c *Config) SetSinkDriver(driver string)     { c.SinkCfg.Driver = driver }
func (c *Config) SetSinkURL(url string)           { c.SinkCfg.URL = url }
func (c *Config) SetSinkSelector(selector string) { c.SinkCfg.Selector = selector }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// Sink drivers.
const (
	DriverWriter = "writer"
	DriverJSON   = "json"
	DriverCDP    = "cdp"
	DriverRod    = "rod"
)

// Drivers lists the known sink drivers.
var Drivers = []string{DriverWriter, DriverJSON, DriverCDP, DriverRod}

// SinkConfig selects where keystrokes go.
type SinkConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	// URL is navigated to before typing in a browser driver.
	URL      string `mapstructure:"url" yaml:"url"`
	Selector string `mapstructure:"selector" yaml:"selector"`
	// RemoteURL attaches to a running browser instead of launching one.
	RemoteURL string        `mapstructure:"remote_url" yaml:"remote_url"`
	Headless  bool          `mapstructure:"headless" yaml:"headless"`
	Stealth   bool          `mapstructure:"stealth" yaml:"stealth"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// IsBrowser reports whether the driver talks to a browser.
func (s SinkConfig) IsBrowser() bool {
	return s.Driver == DriverCDP || s.Driver == DriverRod
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Exporter is one of "stdout", "otlp" or "none".
	Exporter     string  `mapstructure:"exporter" yaml:"exporter"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name" yaml:"service_name"`
	SampleRate   float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "humantyper")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Typer --
	setTyperDefaults(v)

	// -- Sink --
	v.SetDefault("sink.driver", DriverWriter)
	v.SetDefault("sink.headless", true)
	v.SetDefault("sink.stealth", false)
	v.SetDefault("sink.timeout", "10s")

	// -- Tracing --
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.otlp_endpoint", "localhost:4317")
	v.SetDefault("tracing.service_name", "humantyper")
	v.SetDefault("tracing.sample_rate", 1.0)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// The standard collector variable is honored alongside our own prefix.
	_ = v.BindEnv("tracing.otlp_endpoint", "HUMANTYPER_TRACING_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.TyperCfg.Validate(); err != nil {
		return fmt.Errorf("typer configuration invalid: %w", err)
	}
	if err := c.SinkCfg.Validate(); err != nil {
		return fmt.Errorf("sink configuration invalid: %w", err)
	}
	if err := c.TracingCfg.Validate(); err != nil {
		return fmt.Errorf("tracing configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the sink configuration.
func (s *SinkConfig) Validate() error {
	if !slices.Contains(Drivers, s.Driver) {
		return fmt.Errorf("driver must be one of %s, got %q", strings.Join(Drivers, ", "), s.Driver)
	}
	if s.IsBrowser() && s.URL == "" && s.RemoteURL == "" {
		return fmt.Errorf("driver %q requires url or remote_url", s.Driver)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be a positive duration")
	}
	return nil
}

// Validate checks the tracing configuration.
func (t *TracingConfig) Validate() error {
	if !t.Enabled {
		return nil
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be between 0.0 and 1.0")
	}
	switch t.Exporter {
	case "stdout", "otlp", "none", "":
	default:
		return fmt.Errorf("unsupported exporter type: %s", t.Exporter)
	}
	return nil
}

// builtinLayout reports whether name is a built-in layout set.
func builtinLayout(name string) bool {
	return slices.Contains(keyboard.Names(), strings.ToLower(strings.TrimSpace(name)))
}
