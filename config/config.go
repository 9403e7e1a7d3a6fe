package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                   = "8080"
	DefaultAccessTokenExpiryMin   = 15
	DefaultRefreshTokenExpiryDays = 7
	DefaultLockoutThreshold       = 5
	DefaultLockoutMinutes         = 30
)

// placeholderPrefix matches every secret shipped in the sample env files
// ("change-me", "change-me-too"). Booting a production deployment with
// either still in place is a fatal condition.
const placeholderPrefix = "change-me"

func isPlaceholderSecret(secret string) bool {
	return strings.HasPrefix(secret, placeholderPrefix)
}

type Config struct {
	Env                string
	Port               string
	DBURL              string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessExpiryMin    int
	RefreshExpiryDays  int
	LockoutThreshold   int
	LockoutMinutes     int
	AllowedOrigins     []string
}

func Load() *Config {
	env := getEnv("ENV", "development")

	// The file only fills keys the environment left unset.
	switch env {
	case "production":
		_ = godotenv.Load("config/.env.prod")
	default:
		_ = godotenv.Load("config/.env.dev")
	}

	cfg := &Config{
		Env:                env,
		Port:               getEnv("PORT", DefaultPort),
		DBURL:              mustGetEnv("DB_URL"),
		AccessTokenSecret:  mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:    getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryDays:  getEnvAsInt("REFRESH_TOKEN_EXPIRY_DAYS", DefaultRefreshTokenExpiryDays),
		LockoutThreshold:   getEnvAsInt("LOCKOUT_THRESHOLD", DefaultLockoutThreshold),
		LockoutMinutes:     getEnvAsInt("LOCKOUT_MINUTES", DefaultLockoutMinutes),
		AllowedOrigins:     getEnvAsList("ALLOWED_ORIGINS"),
	}

	// A leaked access secret must not be enough to mint refresh tokens.
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		log.Fatal("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must not share a value")
	}

	if cfg.Env == "production" &&
		(isPlaceholderSecret(cfg.AccessTokenSecret) || isPlaceholderSecret(cfg.RefreshTokenSecret)) {
		log.Fatal("token secrets must be rotated away from the placeholder value")
	}

	return cfg
}

func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, fallback int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, fallback)
		return fallback
	}
	return val
}

// getEnvAsList splits a comma-separated value, dropping empty entries. An
// unset key yields nil, which downstream consumers treat as "no restriction".
func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
