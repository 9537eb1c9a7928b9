// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `toml:"server" yaml:"server"`
	Backend   BackendConfig   `toml:"backend" yaml:"backend"`
	Web       WebConfig       `toml:"web" yaml:"web"`
	Cache     CacheConfig     `toml:"cache" yaml:"cache"`
	RateLimit RateLimitConfig `toml:"rate_limit" yaml:"rate_limit"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr" yaml:"listen_addr" env:"MEDIAWEB__LISTEN_ADDR"`
	Mode       string `toml:"mode" yaml:"mode" env:"GIN_MODE"`
}

// BackendConfig points at the media-web backend serving api/config
type BackendConfig struct {
	BaseURL string   `toml:"base_url" yaml:"base_url" env:"MEDIAWEB__BACKEND_URL"`
	Timeout Duration `toml:"timeout" yaml:"timeout" env:"MEDIAWEB__BACKEND_TIMEOUT"`
}

// WebConfig holds page rendering configuration
type WebConfig struct {
	Title        string `toml:"title" yaml:"title"`
	TemplatesDir string `toml:"templates_dir" yaml:"templates_dir" env:"MEDIAWEB__TEMPLATES_DIR"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type  string      `toml:"type" yaml:"type" env:"CACHE_TYPE"`
	Redis RedisConfig `toml:"redis" yaml:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Host string `toml:"host" yaml:"host" env:"REDIS_HOST"`
	Port int    `toml:"port" yaml:"port" env:"REDIS_PORT"`
}

// RateLimitConfig holds the per-client page request limit
type RateLimitConfig struct {
	Window Duration `toml:"window" yaml:"window"`
	Limit  int      `toml:"limit" yaml:"limit" env:"MEDIAWEB__RATE_LIMIT"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Pretty bool `toml:"pretty" yaml:"pretty" env:"ENABLE_PRETTYLOG"`
}

// Duration is a time.Duration read from strings like "15s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
			Mode:       "release",
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8080/",
			Timeout: Duration{15 * time.Second},
		},
		Web: WebConfig{
			Title: "media-web",
		},
		Cache: CacheConfig{
			Type: "memory",
			Redis: RedisConfig{
				Host: "localhost",
				Port: 6379,
			},
		},
		RateLimit: RateLimitConfig{
			Window: Duration{time.Minute},
			Limit:  120,
		},
	}
}

// LoadConfig loads the configuration from a TOML or YAML file on top of the
// defaults, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.Wrap(err, "error decoding config file")
		}
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, errors.Wrap(err, "error decoding config file")
		}
	}

	if err := LoadEnvOverrides(config); err != nil {
		return nil, errors.Wrap(err, "error loading environment variables")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadEnvOverrides checks for environment variables and overrides config values.
// A set variable that does not parse is an error.
func LoadEnvOverrides(config *Config) error {
	// Server
	if env := os.Getenv("MEDIAWEB__LISTEN_ADDR"); env != "" {
		config.Server.ListenAddr = env
	}
	if env := os.Getenv("GIN_MODE"); env != "" {
		config.Server.Mode = env
	}

	// Backend
	if env := os.Getenv("MEDIAWEB__BACKEND_URL"); env != "" {
		config.Backend.BaseURL = env
	}
	if env := os.Getenv("MEDIAWEB__BACKEND_TIMEOUT"); env != "" {
		timeout, err := time.ParseDuration(env)
		if err != nil {
			return errors.Wrapf(err, "invalid MEDIAWEB__BACKEND_TIMEOUT %q", env)
		}
		config.Backend.Timeout = Duration{timeout}
	}

	// Web
	if env := os.Getenv("MEDIAWEB__TEMPLATES_DIR"); env != "" {
		config.Web.TemplatesDir = env
	}

	// Cache
	if env := os.Getenv("CACHE_TYPE"); env != "" {
		config.Cache.Type = env
	}
	if env := os.Getenv("REDIS_HOST"); env != "" {
		config.Cache.Redis.Host = env
	}
	if env := os.Getenv("REDIS_PORT"); env != "" {
		port, err := strconv.Atoi(env)
		if err != nil {
			return errors.Wrapf(err, "invalid REDIS_PORT %q", env)
		}
		config.Cache.Redis.Port = port
	}

	// Rate limit
	if env := os.Getenv("MEDIAWEB__RATE_LIMIT"); env != "" {
		limit, err := strconv.Atoi(env)
		if err != nil {
			return errors.Wrapf(err, "invalid MEDIAWEB__RATE_LIMIT %q", env)
		}
		config.RateLimit.Limit = limit
	}

	// Log
	if env := os.Getenv("ENABLE_PRETTYLOG"); env != "" {
		config.Log.Pretty = env == "true"
	}

	return nil
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return errors.New("server.listen_addr is required")
	}
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	switch strings.ToLower(c.Cache.Type) {
	case "", "memory", "redis":
	default:
		return errors.Errorf("unknown cache.type %q", c.Cache.Type)
	}
	if c.RateLimit.Limit < 0 {
		return errors.New("rate_limit.limit must not be negative")
	}
	return nil
}

// RedisAddr returns host:port of the configured Redis server.
func (c *CacheConfig) RedisAddr() string {
	return c.Redis.Host + ":" + strconv.Itoa(c.Redis.Port)
}
