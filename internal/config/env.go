package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces the environment overrides, e.g. FIELDSIM_STEPS.
const EnvPrefix = "FIELDSIM_"

// ApplyEnv overrides fields of p from FIELDSIM_* environment variables.
// Unset variables leave the current values in place.
func ApplyEnv(p *Params) error {
	if err := env.ParseWithOptions(p, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
