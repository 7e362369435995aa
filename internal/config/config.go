package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// DatabaseURL is either a postgres:// DSN or a SQLite file path.
	DatabaseURL string
	Port        string
	// DefaultCountryCode fills in when an import file has no
	// country_code column or a form post leaves the field empty.
	DefaultCountryCode string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		Port:               os.Getenv("PORT"),
		DefaultCountryCode: os.Getenv("DEFAULT_COUNTRY_CODE"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "talenttrack.db"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = "+91"
	}

	return cfg
}
