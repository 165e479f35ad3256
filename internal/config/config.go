package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryUploadFolder string

	JWTSecret string
	JWTTTL    time.Duration
	LoginURL  string

	SubmitCooldown time.Duration

	// SearchReindexSchedule is a cron spec; empty disables the periodic reindex.
	SearchReindexSchedule string
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: normalizeMeiliHost(os.Getenv("MEILISEARCH_HOST")),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "threadboard/posts"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		LoginURL:  getEnv("LOGIN_URL", "/login"),

		SearchReindexSchedule: strings.TrimSpace(getEnv("SEARCH_REINDEX_SCHEDULE", "@every 6h")),
	}

	ttlMinutes, err := strconv.Atoi(getEnv("JWT_TTL_MINUTES", "1440"))
	if err != nil || ttlMinutes <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %q", os.Getenv("JWT_TTL_MINUTES"))
	}
	cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute

	cfg.SubmitCooldown, err = time.ParseDuration(getEnv("SUBMIT_COOLDOWN", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUBMIT_COOLDOWN: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg, nil
}

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

// normalizeMeiliHost accepts a bare hostname as docker-compose service names are usually given.
func normalizeMeiliHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" || strings.HasPrefix(host, "http") {
		return host
	}
	return "http://" + host + ":7700"
}
