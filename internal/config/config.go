package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"projectuser"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"projectpassword"`
	DBName     string `env:"DB_NAME" envDefault:"project_management"`

	JWTSecret    string        `env:"JWT_SECRET" envDefault:"default-secret-key-change-me"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`

	GinMode string `env:"GIN_MODE" envDefault:"debug"`
	Port    string `env:"PORT" envDefault:"8080"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
