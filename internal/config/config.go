package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	envDevelopment = "development"
	devJWTSecret   = "dev-secret-change-me"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	DatabaseURL     string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	BcryptCost      int
	CORSOrigins     []string
	LogLevel        string
	AppEnv          string
	ShutdownTimeout time.Duration
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from environment variables or sets defaults. A
// .env file in the working directory is read first if present; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: must be positive")
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	shutdown, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		ServerPort:      port,
		DatabaseURL:     getEnv("DATABASE_URL", "sqlite://./game.db"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AccessTokenTTL:  ttl,
		BcryptCost:      cost,
		CORSOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:3001,http://127.0.0.1:3001")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AppEnv:          getEnv("APP_ENV", envDevelopment),
		ShutdownTimeout: shutdown,
	}

	if cfg.JWTSecret == "" {
		if cfg.AppEnv != envDevelopment {
			return nil, errors.New("JWT_SECRET must be set outside development")
		}
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
