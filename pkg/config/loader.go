// Package config loads env-tagged configuration structs. Validation beyond
// parsing belongs to the consuming package, which knows its own invariants.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg according to its `env` and
// `envDefault` tags.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
