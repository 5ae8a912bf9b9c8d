// Package config loads the worker process configuration from the
// environment, mirroring the teacher's env-parsing convention.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the realmforge worker's runtime configuration.
type Config struct {
	WorldSize int16 `env:"REALMFORGE_WORLD_SIZE" envDefault:"200"`
	Speed     int8  `env:"REALMFORGE_SPEED" envDefault:"1"`

	DBDriver string `env:"REALMFORGE_DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"REALMFORGE_DB_DSN" envDefault:"data/realmforge.db"`

	HealthPort int `env:"REALMFORGE_HEALTH_PORT" envDefault:"8090"`

	PollInterval time.Duration `env:"REALMFORGE_POLL_INTERVAL" envDefault:"2s"`
	LeaseTTL     time.Duration `env:"REALMFORGE_LEASE_TTL" envDefault:"30s"`
	BatchSize    int           `env:"REALMFORGE_JOB_BATCH_SIZE" envDefault:"16"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks invariants ParseEnv cannot express through tags alone.
func (c Config) Validate() error {
	if c.Speed < 1 || c.Speed > 5 {
		return fmt.Errorf("config: speed must be in 1..=5, got %d", c.Speed)
	}
	if c.WorldSize <= 0 {
		return fmt.Errorf("config: world size must be positive, got %d", c.WorldSize)
	}
	return nil
}
