// Package config reads the Laguz YAML configuration file. The file is read
// once at startup by cmd/app; `${VAR}` references are expanded from the
// environment before decoding, so secrets like the auth token can stay out
// of the file itself.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by configuration targets that can check
// themselves after decoding.
type Validator interface {
	Validate() error
}

// Load decodes the YAML file at filename into target, expanding environment
// references first. When target implements Validator, an invalid
// configuration is rejected here rather than surfacing later at runtime.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}
