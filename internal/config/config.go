package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRemote   = "remote"
)

type Config struct {
	Env  string
	Port int

	// Store
	StoreBackend string
	DBURL        string
	SQLitePath   string
	APIURL       string
	APIToken     string
	SeedFixtures bool

	// Bill list cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Session
	JWTSecret  string
	SessionTTL time.Duration

	// Receipts
	UploadDir      string
	MaxUploadBytes int64

	OTLPEndpoint string

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load reads the environment, after merging an optional .env file.
func Load() Config {
	// a missing .env is fine; real env vars always win
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		DBURL:        buildDBURL(),
		SQLitePath:   getEnv("SQLITE_PATH", "./data/billed.db"),
		APIURL:       getEnv("API_URL", "http://localhost:5678"),
		APIToken:     getEnv("API_TOKEN", ""),
		SeedFixtures: getEnvBool("SEED_FIXTURES", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,

		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MINUTES", 8*60)) * time.Minute,

		UploadDir:      getEnv("UPLOAD_DIR", "./data/receipts"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrateur"),
	}
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "billed")
	pass := getEnv("DB_PASSWORD", "billed")
	name := getEnv("DB_NAME", "billed")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean env var, using default", "key", key, "value", v, "default", fallback)
			return fallback
		}
		return b
	}
	return fallback
}
