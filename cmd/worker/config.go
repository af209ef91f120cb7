package main

import (
	"github.com/rs/zerolog/log"

	"cashonrails-backend/internal/config"
)

// Config holds all configuration for the worker
type Config struct {
	Redis       config.RedisConfig
	SMTP        config.SMTPConfig
	Concurrency int
	HealthPort  string
}

// loadConfig loads configuration from environment variables.
// The worker never talks to CashOnRails, so gateway settings are not required here.
func loadConfig() *Config {
	cfg := &Config{
		Redis:       config.LoadRedisConfig(),
		SMTP:        config.LoadSMTPConfig(),
		Concurrency: 10,
		HealthPort:  "9999",
	}

	log.Info().
		Str("redis", cfg.Redis.Host).
		Str("smtp", cfg.SMTP.Host+":"+cfg.SMTP.Port).
		Msg("[Config] Worker configuration loaded")

	return cfg
}
