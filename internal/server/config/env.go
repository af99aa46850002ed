package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// dotenvFiles are loaded, when present, before environment variables are
// read. Variables already set in the process environment win.
var dotenvFiles = []string{".env"}

// parseEnv overlays PASSVAULT_* environment variables onto config. Unset
// variables leave the current value untouched.
func parseEnv(config *Config) error {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("failed to process environment variables: %w", err)
	}
	return nil
}
