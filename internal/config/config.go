// Package config collects the service configuration from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to wire the service.
type Config struct {
	Addr         string
	DatabaseURL  string
	KafkaBrokers []string
	KafkaTopic   string
	LogLevel     string
	LogFormat    string
	DevSeed      bool
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Addr:        getenv("ADDR", ":8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		KafkaTopic:  getenv("KAFKA_TOPIC", "operation_recorded"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		LogFormat:   os.Getenv("LOG_FORMAT"),
	}
	if raw := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DEV_SEED"))) {
	case "1", "true", "yes":
		cfg.DevSeed = true
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
