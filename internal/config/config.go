package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the process-wide settings. Loaded once at startup and
// read-only afterwards.
type Config struct {
	Port string

	JWTSecret string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

const (
	defaultAccessTokenMinutes = 30

	refreshTokenTTL = 7 * 24 * time.Hour
)

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Port:            os.Getenv("PORT"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RefreshTokenTTL: refreshTokenTTL,
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	minutes := defaultAccessTokenMinutes
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m <= 0 {
			return Config{}, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be a positive number")
		}
		minutes = m
	}
	cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute

	return cfg, nil
}
