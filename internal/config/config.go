package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP listen address for cmd/server, e.g. ":8080".
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	OpenAI OpenAI
	Log    Log
}

type OpenAI struct {
	// APIKey is read once at startup and not validated.
	APIKey string `env:"OPENAI_API_KEY"`
	// APIKeyParam names an SSM parameter used when APIKey is empty.
	APIKeyParam string        `env:"OPENAI_API_KEY_PARAM"`
	BaseURL     string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model       string        `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	Timeout     time.Duration `env:"OPENAI_TIMEOUT" envDefault:"30s"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads .env (if present) and parses environment variables into Config.
func Load() (Config, error) {
	// Load .env if available; ignore error if file does not exist
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// FromMap parses cfg from an explicit environment instead of the process one.
func FromMap(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NeedsParamStore reports whether the API key must be fetched from SSM.
func (c Config) NeedsParamStore() bool {
	return c.OpenAI.APIKey == "" && c.OpenAI.APIKeyParam != ""
}
