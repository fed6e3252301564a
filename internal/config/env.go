package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays environment variables onto the Config. Variables that
// are unset leave the current values untouched; USE_FIREBASE accepts the
// usual boolean spellings ("1", "true", ...).
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
