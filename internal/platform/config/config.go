// Package config centralizes environment configuration so main stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures service-level configuration.
type Server struct {
	Addr string `env:"DOSSIER_ADDR" envDefault:":8080"`

	// TokenSigningKey signs screening API access tokens. The default exists
	// for development only and must be overridden in production.
	TokenSigningKey string        `env:"DOSSIER_TOKEN_KEY" envDefault:"dev-secret-key-change-in-production"`
	TokenIssuer     string        `env:"DOSSIER_TOKEN_ISSUER" envDefault:"dossier"`
	TokenAudience   string        `env:"DOSSIER_TOKEN_AUDIENCE" envDefault:"dossier-screening"`
	TokenTTL        time.Duration `env:"DOSSIER_TOKEN_TTL" envDefault:"1h"`

	// PostgresDSN enables the Postgres verdict store when set.
	PostgresDSN string `env:"DOSSIER_POSTGRES_DSN"`

	// VerdictTTL bounds how long Redis-held verdicts stay readable.
	VerdictTTL time.Duration `env:"DOSSIER_VERDICT_TTL" envDefault:"24h"`

	Redis Redis `envPrefix:"DOSSIER_REDIS_"`

	// BatchWorkers caps the batch runner's parallelism.
	BatchWorkers int `env:"DOSSIER_BATCH_WORKERS" envDefault:"4"`
}

// Redis captures connection settings for the optional Redis verdict store.
type Redis struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// Load parses configuration from the environment.
func Load() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse environment config: %w", err)
	}
	return cfg, nil
}
