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
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env          string
	Port         int
	Store        string
	DBURL        string
	AutoMigrate  bool
	SeedSamples  bool
	MaxBodyBytes int64
	// ResourceCacheTTL bounds how stale a cached resource list may be.
	ResourceCacheTTL time.Duration

	JWTSecret           string
	JWTAccessTTLMinutes int

	// AdminEmail is the one address that registers with the admin role.
	AdminEmail string
	// BootstrapPassword lets AdminEmail log in as admin before any user row exists.
	// Empty disables the fallback.
	BootstrapPassword string
	RequireWriteAuth  bool

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	ChatTimeout   time.Duration
	ChatRateLimit int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins []string
	OTELEndpoint       string
}

// Load reads the process environment, after merging an optional .env file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "err", err)
	}

	return Config{
		Env:          getEnv("APP_ENV", "dev"),
		Port:         getEnvInt("PORT", 8080),
		Store:        getEnv("STORE", StorePostgres),
		DBURL:        getEnv("DATABASE_URL", buildDBURL()),
		AutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", true),
		SeedSamples:  getEnvBool("DB_SEED_SAMPLES", false),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		ResourceCacheTTL: time.Duration(getEnvInt("RESOURCE_CACHE_TTL_SECONDS", 10)) * time.Second,

		JWTSecret:           getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 60*24),

		AdminEmail:        getEnv("ADMIN_EMAIL", "soralabe@foxmail.com"),
		BootstrapPassword: getEnvAllowEmpty("AUTH_BOOTSTRAP_PASSWORD", "admin"),
		RequireWriteAuth:  getEnvBool("AUTH_REQUIRE_WRITES", false),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		ChatTimeout:   time.Duration(getEnvInt("CHAT_TIMEOUT_SECONDS", 30)) * time.Second,
		ChatRateLimit: getEnvInt("CHAT_RATE_LIMIT", 20),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		OTELEndpoint:       os.Getenv("OTEL_ENDPOINT"),
	}
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "yuwen")
	pass := getEnv("DB_PASSWORD", "yuwen")
	name := getEnv("DB_NAME", "yuwen")
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

// getEnvAllowEmpty distinguishes an unset key from one explicitly set to "".
func getEnvAllowEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer in env, using default", "key", key, "value", v)
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
			slog.Warn("invalid boolean in env, using default", "key", key, "value", v)
			return fallback
		}

		return b
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
