package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingDSN       = errors.New("DATABASE_DSN is required")
	ErrMissingJWTSecret = errors.New("JWT_SECRET is required")
)

type Config struct {
	Port         string
	DatabaseDSN  string
	JWTSecret    []byte
	TokenTTL     time.Duration
	LogLevel     string
	LogFormat    string
	CORSOrigins  []string
	Location     *time.Location
	AutoMigrate  bool
	GeminiAPIKey string
	GeminiModel  string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:     getDuration("TOKEN_TTL", time.Hour),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		AutoMigrate:  getBool("AUTO_MIGRATE", true),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
	}

	if cfg.DatabaseDSN == "" {
		return nil, ErrMissingDSN
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, ErrMissingJWTSecret
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Europe/Brussels"))
	if err != nil {
		logrus.WithError(err).Warn("Unknown TIMEZONE, falling back to UTC")
		loc = time.UTC
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.WithError(err).Warnf("Invalid %s, using %s", key, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
