package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.AdminUsername == "" {
		return fmt.Errorf("auth.admin_username must not be empty")
	}

	if c.Glossary.HintLimit <= 0 {
		return fmt.Errorf("glossary.hint_limit must be > 0 (got %d)", c.Glossary.HintLimit)
	}

	if c.Generation.MaxTokens <= 0 {
		return fmt.Errorf("generation.max_tokens must be > 0 (got %d)", c.Generation.MaxTokens)
	}

	return nil
}
