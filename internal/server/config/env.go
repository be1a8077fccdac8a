package config

import "github.com/caarlos0/env/v10"

// parseEnv overlays values from environment variables using the env tags
// declared on Config. Unset variables leave the current values alone.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
