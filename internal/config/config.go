// Package config loads the application configuration from a yaml file,
// falling back to defaults that point at a local dev server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tiffinbox/internal/pricing"
)

// Config is the application configuration.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Pricing pricing.Rules `yaml:"pricing"`
	Server  struct {
		Port        int    `yaml:"port"`
		MetricsPort int    `yaml:"metrics_port"`
		DBPath      string `yaml:"db_path"`
		JWTSecret   string `yaml:"jwt_secret"`
	} `yaml:"server"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.API.BaseURL = "http://localhost:8080"
	cfg.API.TimeoutSeconds = 60
	cfg.Pricing = pricing.DefaultRules()
	cfg.Server.Port = 8080
	cfg.Server.MetricsPort = 9090
	cfg.Server.DBPath = "tiffin.db"
	cfg.Server.JWTSecret = "dev-secret"
	return cfg
}

// Load reads a yaml config file on top of the defaults. A missing path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 60
	}
	if cfg.Pricing.DeliveryFee == 0 && cfg.Pricing.DiscountThreshold == 0 {
		cfg.Pricing = pricing.DefaultRules()
	}
	return cfg, nil
}

// Timeout returns the API timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
