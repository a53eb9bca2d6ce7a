package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config contains application settings sourced from the environment.
type Config struct {
	DatabaseURL string
	LogLevel    string
	LogFormat   string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := os.Getenv("DB_USER")
		name := os.Getenv("DB_NAME")
		if user == "" || name == "" {
			return Config{}, errors.New("DATABASE_URL env var is required (or DB_USER and DB_NAME)")
		}
		dsn = fmt.Sprintf(
			"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			user,
			os.Getenv("DB_PASSWORD"),
			envOrDefault("DB_HOST", "localhost"),
			envOrDefault("DB_PORT", "5432"),
			name,
			envOrDefault("DB_SSLMODE", "disable"),
		)
	}

	return Config{
		DatabaseURL: dsn,
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "text"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
