package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tunaaoguzhann/expiring-media/core"
)

type config struct {
	Port          int           `yaml:"port"`
	HMACSecret    string        `yaml:"hmac_secret"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TTL           time.Duration `yaml:"ttl"`
	SweepSchedule string        `yaml:"sweep_schedule"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPrefix   string        `yaml:"redis_key_prefix"`
	RateLimit     int           `yaml:"rate_limit"`
	RateWindow    time.Duration `yaml:"rate_window"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	LogLevel      string        `yaml:"log_level"`
}

func defaultConfig() config {
	return config{
		Port:          8080,
		HMACSecret:    "dev-hmac-secret-change-me",
		JWTSecret:     "dev-jwt-secret-change-me",
		TTL:           core.DefaultTTL,
		SweepSchedule: core.DailySweepSpec,
		RateLimit:     30,
		RateWindow:    time.Hour,
		MaxBodyBytes:  10 << 20,
		LogLevel:      "info",
	}
}

// loadConfig reads path (if non-empty) over the defaults, then applies
// environment overrides.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v, ok := envInt("PORT"); ok {
		cfg.Port = v
	}
	if v, ok := envInt("MEDIA_TTL_SECONDS"); ok && v > 0 {
		cfg.TTL = time.Duration(v) * time.Second
	}
	if v, ok := envInt("RATE_LIMIT"); ok {
		cfg.RateLimit = v
	}
	cfg.HMACSecret = envOr("MEDIA_HMAC_SECRET", cfg.HMACSecret)
	cfg.JWTSecret = envOr("JWT_SECRET", cfg.JWTSecret)
	cfg.RedisAddr = envOr("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPrefix = envOr("REDIS_KEY_PREFIX", cfg.RedisPrefix)
	cfg.SweepSchedule = envOr("SWEEP_SCHEDULE", cfg.SweepSchedule)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)

	return cfg, cfg.validate()
}

func (c config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.HMACSecret == "" {
		errs = append(errs, errors.New("hmac_secret is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	if c.TTL <= 0 {
		errs = append(errs, errors.New("ttl must be positive"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate_limit must not be negative"))
	}
	if c.RateLimit > 0 && c.RateWindow <= 0 {
		errs = append(errs, errors.New("rate_window must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max_body_bytes must be positive"))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
