package provider

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/petasbytes/go-companion/completion"
	"github.com/petasbytes/go-companion/internal/config"
)

// ErrMissingAPIKey is returned by constructors given an empty key.
var ErrMissingAPIKey = errors.New("missing API key")

// Config is shared by every provider constructor.
type Config struct {
	APIKey     string
	Model      string // empty selects the provider default
	BaseURL    string // empty selects the SDK default
	MaxTokens  int64  // zero selects config.DefaultMaxTokens
	HTTPClient *http.Client
}

func (c Config) maxTokens() int64 {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return config.DefaultMaxTokens
}

// New builds the provider named in cfg and wraps it with Instrument.
func New(cfg config.Provider) (completion.Client, error) {
	pc := Config{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, MaxTokens: cfg.MaxTokens}
	var (
		c   completion.Client
		err error
	)
	switch cfg.Name {
	case config.Gemini:
		c, err = NewGemini(pc)
	case config.Anthropic:
		c, err = NewAnthropic(pc)
	case config.OpenAI:
		c, err = NewOpenAI(pc)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(cfg.Name, c), nil
}
