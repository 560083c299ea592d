package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains server configuration parameters.
type Config struct {
	Port              string   `env:"PORT" envDefault:"8080"`
	MongoURI          string   `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase     string   `env:"MONGODB_DATABASE" envDefault:"twitter_db"`
	RedisAddr         string   `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB           int      `env:"REDIS_DB" envDefault:"0"`
	JWTSecret         string   `env:"JWT_SECRET"`
	AllowedOrigins    []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	ReconcileInterval int      `env:"RECONCILE_INTERVAL_SECONDS" envDefault:"60"`
}

// Load reads .env (when present) and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment configuration")
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	return &cfg, nil
}
