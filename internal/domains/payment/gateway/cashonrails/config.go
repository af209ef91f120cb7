package cashonrails

import (
	"net/url"
	"strings"
	"time"
)

// =====================================================
// CASHONRAILS CONFIGURATION
// =====================================================

type Config struct {
	SecretKey string        // Bearer credential shared by every call
	BaseURL   string        // e.g. https://mainapi.cashonrails.com
	Timeout   time.Duration // HTTP client timeout
}

const (
	DefaultBaseURL = "https://mainapi.cashonrails.com"
	DefaultTimeout = 30 * time.Second
)

func NewConfig(secretKey, baseURL string, timeout time.Duration) *Config {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Config{
		SecretKey: secretKey,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Timeout:   timeout,
	}
}

// CustomerURL returns the create-customer endpoint
func (c *Config) CustomerURL() string {
	return c.BaseURL + "/api/v1/customer"
}

// InitializeURL returns the initialize-transaction endpoint
func (c *Config) InitializeURL() string {
	return c.BaseURL + "/api/v1/transaction/initialize"
}

// VerifyURL returns the server-to-server verify endpoint for reference
func (c *Config) VerifyURL(reference string) string {
	return c.BaseURL + "/api/v1/s2s/transaction/verify/" + url.PathEscape(reference)
}
