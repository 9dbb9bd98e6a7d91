package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "ENV", "PORT", "DATABASE_URL", "APP_TIMEZONE", "LOG_LEVEL",
	"SESSION_SECRET", "SESSION_TTL", "COOKIE_SECURE", "COOKIE_SAMESITE", "CSRF_KEY",
	"ADMIN_EMAIL", "ADMIN_PASSWORD_HASH", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
	"GOOGLE_REDIRECT_URL", "PAYMENT_LINK", "BUSINESS_NAME", "EMAIL_PROVIDER", "EMAIL_FROM",
	"RESEND_API_KEY", "SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD",
	"NOTIFY_TIMEOUT", "RESERVE_RATE", "RESERVE_BURST",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "noop", cfg.EmailProvider)
	assert.Equal(t, defaultPaymentLink, cfg.PaymentLink)
	assert.Equal(t, cfg.AdminEmail, cfg.EmailFrom)
	assert.False(t, cfg.GoogleLoginEnabled())
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TTL")
}

func TestLoad_InvalidTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_TIMEZONE")
}

func TestLoad_ProdRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("COOKIE_SECURE", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_ProdValid(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "release")
	t.Setenv("SESSION_SECRET", "a-real-secret")
	t.Setenv("CSRF_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("COOKIE_SECURE", "yes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_SameSiteNoneNeedsSecure(t *testing.T) {
	clearEnv(t)
	t.Setenv("COOKIE_SAMESITE", "None")
	t.Setenv("COOKIE_SECURE", "false")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_EmailProviderRequirements(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMAIL_PROVIDER", "resend")
	t.Setenv("RESEND_API_KEY", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("RESEND_API_KEY", "re_test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "resend", cfg.EmailProvider)

	t.Setenv("EMAIL_PROVIDER", "pigeon")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_GoogleLoginEnabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.GoogleLoginEnabled())
}
