package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything main.go needs to wire the app. It is loaded
// once at startup and passed down explicitly.
type Config struct {
	Port      string
	AppEnv    string // "development" or "production"
	JWTSecret string

	DBDriver   string // "postgres" or "sqlite"
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBPath     string // sqlite file, when DBDriver is "sqlite"
}

// LoadEnvVars reads a .env file if present. Missing files are fine in
// production where the environment is set by the platform.
func LoadEnvVars() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Load builds a Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", "development"),
		JWTSecret:  os.Getenv("SECRET_KEY"),
		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBPath:     getEnv("DB_PATH", "todoapp.db"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SECRET_KEY environment variable not set")
	}
	if cfg.DBDriver == "postgres" && cfg.DBHost == "" {
		return nil, fmt.Errorf("database environment variables not fully set")
	}

	return cfg, nil
}

// IsDevelopment reports whether verbose error details may be exposed.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
