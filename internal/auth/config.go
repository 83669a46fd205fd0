package auth

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the auth service settings, read from the environment.
type Config struct {
	Port        int    `env:"PORT" envDefault:"5001"`
	Bind        string `env:"AUTH_BIND" envDefault:"0.0.0.0"`
	JWTSecret   string `env:"JWT_SECRET_KEY" envDefault:"dev_secret_key"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// LoadConfig parses the environment. An empty DatabaseURL selects the
// in-memory host store (dev mode).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse auth env: %w", err)
	}
	return cfg, nil
}
