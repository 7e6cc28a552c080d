// internal/humanoid/config.go
package humanoid

// Config selects the keyboard and speed a Typer works with.
type Config struct {
	// Layout is the name of a built-in layout set. Ignored when LayoutFile is set.
	Layout string
	// LayoutFile points at a YAML layout set.
	LayoutFile string
	// AverageWPM is the mean typing speed in words per minute.
	AverageWPM float64
	// Seed makes a session reproducible. Zero seeds from the clock.
	Seed int64
}

// DefaultConfig returns a qwerty typist at 190 WPM.
func DefaultConfig() Config {
	return Config{
		Layout:     "qwerty",
		AverageWPM: 190,
	}
}
