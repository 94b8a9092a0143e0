package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "dev-secret-change-in-production"

// ErrDefaultSecretInProduction is returned by Load when ENV=production runs with the dev secret.
var ErrDefaultSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

// ErrNonPositiveExpiry is returned by Load when JWT_EXPIRY is zero or negative.
var ErrNonPositiveExpiry = errors.New("JWT_EXPIRY must be positive")

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	CORSOrigins []string

	StripeSecretKey string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	RoleCacheTTL    time.Duration
	NotifyQueueSize int
	NotifyWorkers   int
}

// Production reports whether cookies must be sent cross-site (Secure + SameSite=None).
func (c Config) Production() bool {
	return c.Env == "production"
}

// SMTPEnabled reports whether outbound mail goes through a real SMTP server.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

func Load() (Config, error) {
	secret := getEnv("JWT_SECRET", getEnv("ACCESS_TOKEN_SECRET", defaultJWTSecret))

	cfg := Config{
		Port:        getEnv("PORT", "5000"),
		Env:         getEnv("ENV", getEnv("NODE_ENV", "development")),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/fureverhome?parseTime=true"),
		JWTSecret:   secret,
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:5174")),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getEnv("MAIL_FROM", "FureverHome <no-reply@fureverhome.dev>"),
	}

	var err error
	if cfg.JWTExpiry, err = getDuration("JWT_EXPIRY", 365*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.JWTExpiry <= 0 {
		return Config{}, ErrNonPositiveExpiry
	}
	if cfg.RoleCacheTTL, err = getDuration("ROLE_CACHE_TTL", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SMTPPort, err = getInt("SMTP_PORT", 587); err != nil {
		return Config{}, err
	}
	if cfg.NotifyQueueSize, err = getInt("NOTIFY_QUEUE_SIZE", 256); err != nil {
		return Config{}, err
	}
	if cfg.NotifyWorkers, err = getInt("NOTIFY_WORKERS", 2); err != nil {
		return Config{}, err
	}

	if cfg.Production() && cfg.JWTSecret == defaultJWTSecret {
		return Config{}, ErrDefaultSecretInProduction
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
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
