package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort           = "8001"
	defaultDatabaseURL    = "schedule.db"
	defaultTimezone       = "UTC"
	defaultSessionTTL     = "24h"
	defaultCookieSecure   = "false"
	defaultCookieSameSite = "Lax"
	defaultSessionSecret  = "change-me-session-secret"
	defaultCSRFKey        = "change-me-csrf-key-32-bytes-long"
	defaultAdminEmail     = "heartsoulvolleyballtraining@gmail.com"
	defaultPaymentLink    = "https://venmo.com/heartsoulvolleyball"
	defaultBusinessName   = "Heart Soul Volleyball Training"
	defaultRedirectURL    = "http://localhost:8001/auth/callback"
	defaultEmailProvider  = "noop"
	defaultSMTPHost       = "smtp.gmail.com"
	defaultSMTPPort       = "587"
	defaultReserveRate    = "0.2"
	defaultReserveBurst   = "5"
	defaultNotifyTimeout  = "15s"
	defaultLogLevel       = "info"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	Location    *time.Location
	LogLevel    string

	SessionSecret  string
	SessionTTL     time.Duration
	CookieSecure   bool
	CookieSameSite string
	CSRFKey        string

	AdminEmail         string
	AdminPasswordHash  string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	PaymentLink  string
	BusinessName string

	EmailProvider string
	EmailFrom     string
	ResendAPIKey  string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	NotifyTimeout time.Duration

	ReserveRate  float64
	ReserveBurst int
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel)))

	tz := strings.TrimSpace(getEnv("APP_TIMEZONE", defaultTimezone))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE value %q: %w", tz, err)
	}
	cfg.Location = loc

	cfg.SessionSecret = strings.TrimSpace(getEnv("SESSION_SECRET", defaultSessionSecret))
	cfg.SessionTTL, err = parseDurationEnv("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}
	cfg.CookieSecure = parseBoolEnv("COOKIE_SECURE", defaultCookieSecure)
	cfg.CookieSameSite = strings.TrimSpace(getEnv("COOKIE_SAMESITE", defaultCookieSameSite))
	cfg.CSRFKey = getEnv("CSRF_KEY", defaultCSRFKey)

	cfg.AdminEmail = strings.TrimSpace(getEnv("ADMIN_EMAIL", defaultAdminEmail))
	cfg.AdminPasswordHash = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH"))
	cfg.GoogleClientID = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID"))
	cfg.GoogleClientSecret = strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_SECRET"))
	cfg.GoogleRedirectURL = strings.TrimSpace(getEnv("GOOGLE_REDIRECT_URL", defaultRedirectURL))

	cfg.PaymentLink = strings.TrimSpace(getEnv("PAYMENT_LINK", defaultPaymentLink))
	cfg.BusinessName = strings.TrimSpace(getEnv("BUSINESS_NAME", defaultBusinessName))

	cfg.EmailProvider = strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", defaultEmailProvider)))
	cfg.EmailFrom = strings.TrimSpace(getEnv("EMAIL_FROM", cfg.AdminEmail))
	cfg.ResendAPIKey = strings.TrimSpace(os.Getenv("RESEND_API_KEY"))
	cfg.SMTPHost = strings.TrimSpace(getEnv("SMTP_HOST", defaultSMTPHost))
	cfg.SMTPPort, err = parseIntEnv("SMTP_PORT", defaultSMTPPort)
	if err != nil {
		return nil, err
	}
	cfg.SMTPUsername = strings.TrimSpace(getEnv("SMTP_USERNAME", cfg.AdminEmail))
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.NotifyTimeout, err = parseDurationEnv("NOTIFY_TIMEOUT", defaultNotifyTimeout)
	if err != nil {
		return nil, err
	}

	cfg.ReserveRate, err = parseFloatEnv("RESERVE_RATE", defaultReserveRate)
	if err != nil {
		return nil, err
	}
	cfg.ReserveBurst, err = parseIntEnv("RESERVE_BURST", defaultReserveBurst)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GoogleLoginEnabled reports whether the OAuth client is configured.
func (c *Config) GoogleLoginEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c *Config) IsProd() bool { return isProdLike(c.AppEnv) }

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if cfg.NotifyTimeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be > 0")
	}
	if cfg.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL must not be empty")
	}
	if len(cfg.CSRFKey) != 32 {
		return fmt.Errorf("CSRF_KEY must be exactly 32 bytes")
	}
	if cfg.ReserveRate <= 0 || cfg.ReserveBurst <= 0 {
		return fmt.Errorf("RESERVE_RATE and RESERVE_BURST must be > 0")
	}
	sameSite := strings.ToLower(cfg.CookieSameSite)
	if sameSite != "lax" && sameSite != "none" && sameSite != "strict" {
		return fmt.Errorf("COOKIE_SAMESITE must be one of: Lax, None, Strict")
	}
	if sameSite == "none" && !cfg.CookieSecure {
		return fmt.Errorf("COOKIE_SECURE must be true when COOKIE_SAMESITE=None")
	}
	switch cfg.EmailProvider {
	case "noop":
	case "resend":
		if cfg.ResendAPIKey == "" {
			return fmt.Errorf("RESEND_API_KEY is required when EMAIL_PROVIDER=resend")
		}
	case "smtp":
		if cfg.SMTPHost == "" || cfg.SMTPPassword == "" {
			return fmt.Errorf("SMTP_HOST and SMTP_PASSWORD are required when EMAIL_PROVIDER=smtp")
		}
	default:
		return fmt.Errorf("EMAIL_PROVIDER must be one of: noop, resend, smtp")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.SessionSecret, defaultSessionSecret) {
			return fmt.Errorf("in prod/release SESSION_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.CSRFKey, defaultCSRFKey) {
			return fmt.Errorf("in prod/release CSRF_KEY must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
