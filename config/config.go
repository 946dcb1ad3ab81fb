package config

import (
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv            string
	Port              string
	DatabaseDSN       string
	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string
}

var (
	cfg  *Config
	once sync.Once
)

// LoadConfig reads configuration from environment variables, loading a .env
// file first when one is present.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: .env file not found. Relying on environment variables.")
		}
		cfg = &Config{
			AppEnv:            getEnv("APP_ENV", "development"),
			Port:              getEnv("PORT", "8080"),
			DatabaseDSN:       getEnv("DATABASE_DSN", "file:hospital_management.db"),
			JWTSecret:         os.Getenv("JWT_SECRET_KEY"),
			AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		}

		if _, err := strconv.Atoi(cfg.Port); err != nil {
			log.Printf("invalid PORT value %q, defaulting to 8080", cfg.Port)
			cfg.Port = "8080"
		}
	})
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
