package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "PASSVAULT"

// parseEnv overlays PASSVAULT_SERVER_URL, PASSVAULT_DATA_DIR and
// PASSVAULT_TIMEOUT when they are set.
func parseEnv(cfg *Config) error {
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return fmt.Errorf("env config: %w", err)
	}
	return nil
}
