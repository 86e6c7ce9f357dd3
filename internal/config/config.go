package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Glossary   GlossaryConfig   `yaml:"glossary"`
	Generation GenerationConfig `yaml:"generation"`
	Site       SiteConfig       `yaml:"site"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8001"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds admin authentication settings, including the bootstrap
// admin created at startup when no record with that username exists.
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"     env:"JWT_SECRET"     env-required:"true"`
	JWTIssuer     string        `yaml:"jwt_issuer"     env:"JWT_ISSUER"     env-default:"bariwiki"`
	TokenTTL      time.Duration `yaml:"token_ttl"      env:"AUTH_TOKEN_TTL" env-default:"24h"`
	AdminUsername string        `yaml:"admin_username" env:"ADMIN_USERNAME" env-default:"admin"`
	AdminPassword string        `yaml:"admin_password" env:"ADMIN_PASSWORD"`
}

// GlossaryConfig holds term listing and generation-context limits.
type GlossaryConfig struct {
	HintLimit int `yaml:"hint_limit" env:"GLOSSARY_HINT_LIMIT" env-default:"15"`
}

// GenerationConfig holds the external text-generation service settings.
// An empty APIKey disables AI description generation.
type GenerationConfig struct {
	APIKey    string        `yaml:"api_key"    env:"ANTHROPIC_API_KEY"`
	Model     string        `yaml:"model"      env:"GENERATION_MODEL"      env-default:"claude-sonnet-4-5"`
	MaxTokens int           `yaml:"max_tokens" env:"GENERATION_MAX_TOKENS" env-default:"2048"`
	Timeout   time.Duration `yaml:"timeout"    env:"GENERATION_TIMEOUT"    env-default:"90s"`
}

// SiteConfig holds public-site settings used by the sitemap handler.
type SiteConfig struct {
	BaseURL string `yaml:"base_url" env:"SITE_BASE_URL" env-default:"https://parnellwellness.com"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// GenerationEnabled reports whether a generation-service credential is configured.
func (c GenerationConfig) GenerationEnabled() bool {
	return c.APIKey != ""
}
