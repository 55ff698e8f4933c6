package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with MATCHY_* environment variables. Unset
// variables leave existing values in place; malformed values panic so a
// broken deployment fails at startup rather than with defaults.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
