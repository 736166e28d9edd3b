package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Backend selects the data/auth collaborator: "supabase" for the hosted
	// service, "postgres" for a self-hosted direct connection.
	Backend string `env:"DATA_BACKEND" envDefault:"supabase"`

	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseAnonKey string `env:"SUPABASE_ANON_KEY"`
	PostgresURL     string `env:"POSTGRES_URL"`

	// AccessToken restores a previous session at startup; empty means the
	// session store resolves straight to anonymous.
	AccessToken string `env:"ACCESS_TOKEN"`

	ServerAddr     string        `env:"SERVER_ADDR" envDefault:":8080"`
	AdminAddr      string        `env:"ADMIN_ADDR" envDefault:":9091"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// UpstreamRPS caps requests to the hosted service to stay inside its
	// per-project quota.
	UpstreamRPS float64 `env:"UPSTREAM_RPS" envDefault:"50"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
