package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config.yaml"

// Load assembles the runtime configuration. Values come from a YAML file
// plus environment variables, with ENV taking priority and env-default
// tags supplying the rest.
//
// The file path is taken from CONFIG_PATH; when that variable is set the
// file must exist. Without it, "./config.yaml" is used if present and
// otherwise configuration comes from the environment alone. The result is
// validated before it is returned.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	fromEnv := path != ""
	if !fromEnv {
		path = defaultConfigPath
	}

	switch _, err := os.Stat(path); {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case fromEnv:
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
