package manifest

import (
	"fmt"
)

// Config represents the complete manifest configuration
type Config struct {
	Specs   []string `yaml:"specs" json:"specs"`
	Options Options  `yaml:"options" json:"options"`
}

// Options represents global manifest options. Fields left empty in the
// manifest stay empty so that other configuration sources keep their say.
type Options struct {
	Output    string `yaml:"output,omitempty" json:"output,omitempty"`
	Transport string `yaml:"transport,omitempty" json:"transport,omitempty"`
	Strict    bool   `yaml:"strict" json:"strict"`
}

// Validate validates the manifest configuration
func (c *Config) Validate() error {
	if len(c.Specs) == 0 {
		return ErrNoSpecs
	}
	for i, spec := range c.Specs {
		if spec == "" {
			return fmt.Errorf("spec %d: %w", i, ErrEmptySpec)
		}
	}
	return nil
}
