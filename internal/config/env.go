package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment variable read by FromEnv.
const EnvPrefix = "COINLOG_"

// FromEnv overlays COINLOG_* environment variables onto cfg. Unset variables
// leave the existing values untouched.
func FromEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
