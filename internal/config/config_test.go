package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("STRIPE_API_KEY", "sk_test")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "usd", cfg.PaymentCurrency)
	assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, 72*time.Hour, cfg.WebhookDedupeTTL)
	assert.True(t, cfg.DBAutoMigrate)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadRequiresStripeSecrets(t *testing.T) {
	t.Setenv("STRIPE_API_KEY", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_API_KEY")
	assert.Contains(t, err.Error(), "STRIPE_WEBHOOK_SECRET")
}

func TestLoadParsesOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PAYMENT_CURRENCY", "EUR")
	t.Setenv("PUBLIC_BASE_URL", "https://shop.example.com/")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, ,https://admin.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "eur", cfg.PaymentCurrency)
	assert.Equal(t, "https://shop.example.com", cfg.PublicBaseURL)
	assert.Equal(t, 3*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.False(t, cfg.DBAutoMigrate)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	setRequired(t)
	t.Setenv("GATEWAY_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_BURST", "-1")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GATEWAY_TIMEOUT")
	assert.Contains(t, err.Error(), "RATE_LIMIT_BURST")
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	t.Setenv("STRIPE_API_KEY", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")
	os.Unsetenv("STRIPE_API_KEY")
	os.Unsetenv("STRIPE_WEBHOOK_SECRET")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STRIPE_API_KEY=sk_file\nSTRIPE_WEBHOOK_SECRET=whsec_file\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk_file", cfg.StripeAPIKey)
	assert.Equal(t, "whsec_file", cfg.StripeWebhookSecret)
}
