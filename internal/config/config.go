// Package config reads runtime settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Provider names.
const (
	Gemini    = "gemini"
	Anthropic = "anthropic"
	OpenAI    = "openai"
)

const (
	DefaultTimeout   = 60 * time.Second
	DefaultMaxTokens = 1024
)

// Provider selects and authenticates a completion backend.
type Provider struct {
	Name      string
	Model     string // empty means the provider default
	APIKey    string
	BaseURL   string // openai only
	MaxTokens int64
}

// Config is the full runtime configuration.
type Config struct {
	Provider   Provider
	SchemaPath string // empty means the generated default schema
	Strict     bool
	Timeout    time.Duration
	// TokenBudget caps the estimated size of an extraction transcript; 0 disables it.
	TokenBudget int
	LogLevel   log.Level
}

// Load applies envFiles (default ".env") without overriding variables that
// are already set, then reads the environment. Missing files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	c := &Config{
		Provider: Provider{
			Name:  strings.ToLower(getEnv("COMPANION_PROVIDER", Gemini)),
			Model: os.Getenv("COMPANION_MODEL"),
		},
		SchemaPath: os.Getenv("COMPANION_SCHEMA_PATH"),
		Strict:     os.Getenv("COMPANION_STRICT") == "1",
		Timeout:    DefaultTimeout,
		LogLevel:   log.InfoLevel,
	}

	switch c.Provider.Name {
	case Gemini:
		c.Provider.APIKey = getEnv("GEMINI_API_KEY", os.Getenv("API_KEY"))
	case Anthropic:
		c.Provider.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case OpenAI:
		c.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
		c.Provider.BaseURL = os.Getenv("OPENAI_BASE_URL")
	default:
		return nil, fmt.Errorf("unknown COMPANION_PROVIDER %q (want %s, %s or %s)", c.Provider.Name, Gemini, Anthropic, OpenAI)
	}

	if v := os.Getenv("COMPANION_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid COMPANION_TIMEOUT %q: %w", v, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid COMPANION_TIMEOUT %q: must be positive", v)
		}
		c.Timeout = d
	}

	c.Provider.MaxTokens = DefaultMaxTokens
	if v := os.Getenv("COMPANION_MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid COMPANION_MAX_TOKENS %q", v)
		}
		c.Provider.MaxTokens = n
	}

	if v := os.Getenv("COMPANION_TOKEN_BUDGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid COMPANION_TOKEN_BUDGET %q", v)
		}
		c.TokenBudget = n
	}

	if v := os.Getenv("COMPANION_LOG_LEVEL"); v != "" {
		lvl, err := log.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid COMPANION_LOG_LEVEL %q: %w", v, err)
		}
		c.LogLevel = lvl
	}
	return c, nil
}

// Validate reports settings that would only fail at the first completion call.
func (c *Config) Validate() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("missing API key for provider %s; export %s", c.Provider.Name, keyVar(c.Provider.Name))
	}
	return nil
}

func keyVar(provider string) string {
	switch provider {
	case Anthropic:
		return "ANTHROPIC_API_KEY"
	case OpenAI:
		return "OPENAI_API_KEY"
	default:
		return "GEMINI_API_KEY"
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
