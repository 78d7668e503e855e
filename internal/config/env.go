package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Env holds runtime configuration read from the environment (or a .env file).
type Env struct {
	AppAddr        string `validate:"required"`
	GinMode        string
	BackendBaseURL string        `validate:"required,url"`
	BackendTimeout time.Duration `validate:"required"`
	SessionSecret  string        `validate:"required,min=16"`
	SessionTTL     time.Duration `validate:"required"`
	CookieSecure   bool
	CORSOrigins    []string
}

func LoadEnv() Env {
	// Best effort: a missing .env is fine in production.
	_ = godotenv.Load()

	env := Env{
		AppAddr:        envOr("APP_ADDR", ":8080"),
		GinMode:        strings.TrimSpace(os.Getenv("GIN_MODE")),
		BackendBaseURL: envOr("BACKEND_BASE_URL", "http://localhost:9090/api"),
		BackendTimeout: envSeconds("BACKEND_TIMEOUT_SECONDS", 15*time.Second),
		SessionSecret:  envOr("SESSION_SECRET", "dev-session-secret-change-me"),
		SessionTTL:     envHours("SESSION_TTL_HOURS", 24*time.Hour),
		CORSOrigins:    envList("CORS_ALLOWED_ORIGINS"),
	}
	// Release deployments serve over TLS; the cookie follows unless overridden.
	env.CookieSecure = envBool("SESSION_COOKIE_SECURE", env.GinMode == "release")

	if err := validator.New().Struct(env); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return env
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

func envHours(key string, fallback time.Duration) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Hour
}

func envList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
