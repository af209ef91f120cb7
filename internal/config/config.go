package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config holds the whole application configuration.
// It is populated from environment variables (and .env in development).
type Config struct {
	App         AppConfig
	Redis       RedisConfig
	SMTP        SMTPConfig
	CashOnRails CashOnRailsConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host string
	Port string
	From string
}

// =====================================================
// CASHONRAILS CONFIGURATION
// =====================================================

type CashOnRailsConfig struct {
	SecretKey     string        // Merchant secret key, sent as bearer credential
	BaseURL       string        // CashOnRails API base URL
	Currency      string        // Currency used for every transaction
	ReturnURL     string        // Storefront return page, order_id is appended
	LogoURL       string        // Site logo shown on the hosted checkout page
	WebhookMarker string        // Query marker identifying webhook requests
	HTTPTimeout   time.Duration // Client timeout for outbound calls
	LockTTL       time.Duration // Confirmation lock lifetime
	UseMock       bool          // Use the in-process mock gateway
}

// SupportedCurrencies are the currencies CashOnRails accepts for hosted checkout.
var SupportedCurrencies = []string{"NGN", "USD", "EUR", "GBP"}

func (c CashOnRailsConfig) Validate() error {
	currencies := make([]interface{}, 0, len(SupportedCurrencies))
	for _, cur := range SupportedCurrencies {
		currencies = append(currencies, cur)
	}

	return validation.ValidateStruct(&c,
		validation.Field(&c.SecretKey, validation.When(!c.UseMock, validation.Required)),
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Currency, validation.Required, validation.In(currencies...)),
		validation.Field(&c.ReturnURL, validation.Required, is.URL),
		validation.Field(&c.LogoURL, is.URL),
		validation.Field(&c.WebhookMarker, validation.Required),
		validation.Field(&c.HTTPTimeout, validation.Min(time.Second)),
		validation.Field(&c.LockTTL, validation.Min(time.Second)),
	)
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "CashOnRails Payments"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Redis: LoadRedisConfig(),
		SMTP:  LoadSMTPConfig(),
		CashOnRails: CashOnRailsConfig{
			SecretKey:     getEnv("CASHONRAILS_SECRET_KEY", ""),
			BaseURL:       getEnv("CASHONRAILS_API_URL", "https://mainapi.cashonrails.com"),
			Currency:      strings.ToUpper(getEnv("CASHONRAILS_CURRENCY", "NGN")),
			ReturnURL:     getEnv("CASHONRAILS_RETURN_URL", "http://localhost:8080/api/v1/payments/cashonrails/return"),
			LogoURL:       getEnv("CASHONRAILS_LOGO_URL", ""),
			WebhookMarker: getEnv("CASHONRAILS_WEBHOOK_MARKER", "cashonrails-webhook"),
			HTTPTimeout:   getEnvDuration("CASHONRAILS_HTTP_TIMEOUT", 30*time.Second),
			LockTTL:       getEnvDuration("CASHONRAILS_LOCK_TTL", 30*time.Second),
			UseMock:       getEnvBool("CASHONRAILS_MOCK", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadRedisConfig is shared by the API and the worker
func LoadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

func LoadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host: getEnv("SMTP_HOST", "localhost"),
		Port: getEnv("SMTP_PORT", "1025"),
		From: getEnv("SMTP_FROM", "noreply@shop.local"),
	}
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if err := c.CashOnRails.Validate(); err != nil {
		return fmt.Errorf("cashonrails: %w", err)
	}

	if c.App.Environment == "production" && c.CashOnRails.UseMock {
		return fmt.Errorf("CASHONRAILS_MOCK must not be enabled in production")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
