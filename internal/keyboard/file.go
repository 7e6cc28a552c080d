package keyboard

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// setFile is the on-disk form of a custom layout set.
type setFile struct {
	Name    string       `yaml:"name"`
	Layouts []layoutFile `yaml:"layouts"`
}

type layoutFile struct {
	Name            string          `yaml:"name"`
	Grid            string          `yaml:"grid"`
	Staggering      staggeringValue `yaml:"staggering"`
	HorizontalPitch float64         `yaml:"horizontal_pitch"`
	VerticalPitch   float64         `yaml:"vertical_pitch"`
}

// staggeringValue accepts either a single number or a list of per-gap offsets.
type staggeringValue struct {
	Staggering
}

func (s *staggeringValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := node.Decode(&v); err != nil {
			return fmt.Errorf("staggering: %w", err)
		}
		s.Staggering = Uniform(v)
	case yaml.SequenceNode:
		var gaps []float64
		if err := node.Decode(&gaps); err != nil {
			return fmt.Errorf("staggering: %w", err)
		}
		s.Staggering = PerRow(gaps...)
	default:
		return fmt.Errorf("%w: staggering must be a number or a list of numbers (line %d)", ErrInvalidStaggering, node.Line)
	}
	return nil
}

// LoadSetFile reads a custom layout set from a YAML file. A leading "~" in
// path is expanded to the user's home directory.
func LoadSetFile(path string) (*Set, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("keyboard: failed to expand layout file path %q: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("keyboard: failed to read layout file: %w", err)
	}
	set, err := ParseSet(data)
	if err != nil {
		return nil, fmt.Errorf("keyboard: %s: %w", expanded, err)
	}
	return set, nil
}

// ParseSet decodes a layout set document:
//
//	name: dvorak
//	layouts:
//	  - name: lower
//	    staggering: [0.5, 0.25, 0.5]
//	    grid: |
//	      ` 1 2 3 4
//	      ' , . p y
func ParseSet(data []byte) (*Set, error) {
	var doc setFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("keyboard: invalid layout set document: %w", err)
	}
	if len(doc.Layouts) == 0 {
		return nil, fmt.Errorf("%w: layout set defines no layouts", ErrInvalidGrid)
	}
	if doc.Name == "" {
		doc.Name = "custom"
	}

	layouts := make([]*Layout, 0, len(doc.Layouts))
	for i, lf := range doc.Layouts {
		opts := []GridOption{WithName(lf.Name), WithStaggering(lf.Staggering.Staggering)}
		if lf.HorizontalPitch != 0 {
			opts = append(opts, WithHorizontalPitch(lf.HorizontalPitch))
		}
		if lf.VerticalPitch != 0 {
			opts = append(opts, WithVerticalPitch(lf.VerticalPitch))
		}
		l, err := FromGrid(lf.Grid, opts...)
		if err != nil {
			return nil, fmt.Errorf("layout %d (%s): %w", i, lf.Name, err)
		}
		layouts = append(layouts, l)
	}
	return NewSet(doc.Name, layouts...), nil
}
