package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CASHONRAILS_SECRET_KEY", "sk_test_123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "NGN", cfg.CashOnRails.Currency)
	assert.Equal(t, "https://mainapi.cashonrails.com", cfg.CashOnRails.BaseURL)
	assert.Equal(t, "cashonrails-webhook", cfg.CashOnRails.WebhookMarker)
	assert.Equal(t, 30*time.Second, cfg.CashOnRails.HTTPTimeout)
	assert.False(t, cfg.CashOnRails.UseMock)
}

func TestLoad_CurrencyIsNormalized(t *testing.T) {
	t.Setenv("CASHONRAILS_SECRET_KEY", "sk_test_123")
	t.Setenv("CASHONRAILS_CURRENCY", "usd")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.CashOnRails.Currency)
}

func TestLoad_RejectsUnsupportedCurrency(t *testing.T) {
	t.Setenv("CASHONRAILS_SECRET_KEY", "sk_test_123")
	t.Setenv("CASHONRAILS_CURRENCY", "JPY")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Currency")
}

func TestLoad_SecretKeyRequiredUnlessMock(t *testing.T) {
	t.Setenv("CASHONRAILS_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("CASHONRAILS_MOCK", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.CashOnRails.UseMock)
}

func TestLoad_MockForbiddenInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("CASHONRAILS_MOCK", "true")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_CONNECT_TIMEOUT", "3s")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)

	t.Setenv("DB_PORT", "abc")
	_, err = LoadDatabaseConfig()
	assert.Error(t, err)
}

func TestLoadWorkerConfigs(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SMTP_FROM", "billing@shop.example")

	redisCfg := LoadRedisConfig()
	assert.Equal(t, "redis:6380", redisCfg.Host)
	assert.Equal(t, 2, redisCfg.DB)

	smtpCfg := LoadSMTPConfig()
	assert.Equal(t, "localhost", smtpCfg.Host)
	assert.Equal(t, "1025", smtpCfg.Port)
	assert.Equal(t, "billing@shop.example", smtpCfg.From)
}
