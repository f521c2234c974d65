// Package config holds the shape parameters shared by gates and the circuit builder.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type CircuitConfig struct {
	// NumWires is the width of the trace.
	NumWires int `yaml:"num_wires"`
	// NumRoutedWires is the number of leading columns that take part in copy constraints.
	NumRoutedWires int `yaml:"num_routed_wires"`
	// NumConstants is the number of per-row constant columns.
	NumConstants int `yaml:"num_constants"`
}

// StandardRecursionConfig mirrors the shape of a typical recursive circuit.
func StandardRecursionConfig() CircuitConfig {
	return CircuitConfig{
		NumWires:       135,
		NumRoutedWires: 80,
		NumConstants:   2,
	}
}

func (c CircuitConfig) Validate() error {
	if c.NumWires <= 0 {
		return fmt.Errorf("num_wires must be positive, got %d", c.NumWires)
	}
	if c.NumRoutedWires <= 0 || c.NumRoutedWires > c.NumWires {
		return fmt.Errorf("num_routed_wires must be in [1, %d], got %d", c.NumWires, c.NumRoutedWires)
	}
	if c.NumConstants < 0 {
		return fmt.Errorf("num_constants must not be negative, got %d", c.NumConstants)
	}
	return nil
}

// Parse reads a YAML document. Missing fields keep their StandardRecursionConfig value.
func Parse(data []byte) (CircuitConfig, error) {
	c := StandardRecursionConfig()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return CircuitConfig{}, fmt.Errorf("parsing circuit config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return CircuitConfig{}, err
	}
	return c, nil
}

func Load(path string) (CircuitConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CircuitConfig{}, fmt.Errorf("reading circuit config: %w", err)
	}
	return Parse(data)
}
