package config

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends selectable through LIBRETTO_STORE.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config holds the process-wide settings shared by the CLI, the HTTP server
// and the MCP server.
type Config struct {
	LogLevel  string `env:"LIBRETTO_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LIBRETTO_LOG_FORMAT" envDefault:"text"`

	Store    string `env:"LIBRETTO_STORE" envDefault:"none"`
	StoreDir string `env:"LIBRETTO_STORE_DIR" envDefault:".libretto"`
	// StoreKey (base64, 32 bytes) encrypts stored outputs at rest.
	StoreKey          string   `env:"LIBRETTO_STORE_KEY"`
	StoreFallbackKeys []string `env:"LIBRETTO_STORE_FALLBACK_KEYS" envSeparator:","`

	RedisAddr     string        `env:"LIBRETTO_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"LIBRETTO_REDIS_PASSWORD"`
	RedisDB       int           `env:"LIBRETTO_REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"LIBRETTO_REDIS_TTL" envDefault:"0s"`

	HTTPAddr string `env:"LIBRETTO_HTTP_ADDR" envDefault:":8080"`

	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	// WordsPerMinute drives the estimate generator when a document does not
	// set its own rate.
	WordsPerMinute int `env:"LIBRETTO_WPM" envDefault:"150"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and numeric fields.
func (c Config) Validate() error {
	switch c.Store {
	case StoreNone, StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid LIBRETTO_STORE %q (want none, memory, file or redis)", c.Store)
	}
	if c.WordsPerMinute <= 0 {
		return fmt.Errorf("invalid LIBRETTO_WPM %d: must be positive", c.WordsPerMinute)
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("invalid LIBRETTO_REDIS_TTL %s: must not be negative", c.RedisTTL)
	}
	if _, err := c.EncryptionKeys(); err != nil {
		return err
	}
	return nil
}

// EncryptionKeys decodes StoreKey and StoreFallbackKeys. It returns nil keys
// when no StoreKey is set.
func (c Config) EncryptionKeys() ([][]byte, error) {
	if c.StoreKey == "" {
		return nil, nil
	}
	raw := append([]string{c.StoreKey}, c.StoreFallbackKeys...)
	keys := make([][]byte, 0, len(raw))
	for i, k := range raw {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("invalid store key %d: %w", i, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("invalid store key %d: want 32 bytes, got %d", i, len(key))
		}
		keys = append(keys, key)
	}
	return keys, nil
}
