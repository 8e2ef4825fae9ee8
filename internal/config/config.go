package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string

	// JWTSecret signs session tokens. Required outside development; the
	// process refuses to start without it.
	JWTSecret     string
	SessionTTL    time.Duration
	SessionLeeway time.Duration

	ResetTokenTTL      time.Duration
	ResetSweepInterval time.Duration

	AllowedOrigins []string

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPUseTLS   bool

	// ResetLinkBase is prepended to issued reset tokens in the email body.
	ResetLinkBase string

	// AuthReturnResetToken echoes the raw reset token in the forgot-password
	// response. Development convenience only; never enabled in production.
	AuthReturnResetToken bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		DatabaseURL:          databaseURL(),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		SessionTTL:           minutes("SESSION_TTL_MINUTES", 30),
		SessionLeeway:        seconds("SESSION_LEEWAY_SECONDS", 0),
		ResetTokenTTL:        minutes("RESET_TOKEN_TTL_MINUTES", 60),
		ResetSweepInterval:   minutes("RESET_SWEEP_MINUTES", 5),
		AllowedOrigins:       splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             getEnv("SMTP_PORT", "587"),
		SMTPUser:             os.Getenv("SMTP_USER"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             os.Getenv("SMTP_FROM"),
		SMTPUseTLS:           boolean("SMTP_USE_TLS", false),
		ResetLinkBase:        getEnv("RESET_LINK_BASE", "http://localhost:3000/reset-password?token="),
		AuthReturnResetToken: boolean("AUTH_RETURN_RESET_TOKEN", false),
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment != "development" {
			return nil, fmt.Errorf("JWT_SECRET is required when ENVIRONMENT=%s", cfg.Environment)
		}
		cfg.JWTSecret = "dev-only-secret"
	}

	return cfg, nil
}

func databaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	host := getEnv("PSQL_HOST", "localhost")
	port := getEnv("PSQL_PORT", "5432")
	user := getEnv("PSQL_USER", "postgres")
	password := getEnv("PSQL_PASSWORD", "postgres")
	dbName := getEnv("PSQL_DB_NAME", "maildesk")

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   host + ":" + port,
		Path:   dbName,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func minutes(key string, defaultValue int) time.Duration {
	return time.Duration(integer(key, defaultValue)) * time.Minute
}

func seconds(key string, defaultValue int) time.Duration {
	return time.Duration(integer(key, defaultValue)) * time.Second
}

func integer(key string, defaultValue int) int {
	if v, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func boolean(key string, defaultValue bool) bool {
	if v, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
