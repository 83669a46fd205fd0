package question

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the question service settings, read from the environment.
type Config struct {
	Port           int    `env:"PORT" envDefault:"5003"`
	Bind           string `env:"QUESTION_BIND" envDefault:"0.0.0.0"`
	AuthServiceURL string `env:"AUTH_SERVICE_URL" envDefault:"http://localhost:5001"`
	OpenTDBURL     string `env:"OPENTDB_API_URL"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse question env: %w", err)
	}
	return cfg, nil
}
