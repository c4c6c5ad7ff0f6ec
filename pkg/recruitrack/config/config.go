// Package config loads server configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all server settings, populated from environment variables.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	DBPath        string        `env:"RECRUITRACK_DB_PATH" envDefault:"recruitrack.db"`
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"recruitrack-dev-secret-change-in-production"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	UploadDir     string        `env:"RECRUITRACK_UPLOAD_DIR" envDefault:"uploads"`
	InvitationTTL time.Duration `env:"INVITATION_TTL" envDefault:"168h"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
