package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider identifiers accepted by ForProvider.
const (
	ProviderOpenAI = "openai"
	ProviderGrok   = "grok"
	ProviderOllama = "ollama"
)

// DefaultTimeout bounds the single request-response round trip. Exceeding it
// is a transport error, not a distinct failure category.
const DefaultTimeout = 60 * time.Second

// Generation parameters kept fixed for reproducible decisions.
const (
	MaxOutputTokens     = 500
	SamplingTemperature = 0.1
)

// ProviderConfig is the explicit configuration for one provider adapter,
// resolved once at process start and threaded through construction.
type ProviderConfig struct {
	Provider     string
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
}

// ForProvider resolves the configuration for the named provider, reading the
// bearer credential from the provider's environment variable.
func ForProvider(name string) (ProviderConfig, error) {
	switch name {
	case ProviderOpenAI:
		return ProviderConfig{
			Provider:     ProviderOpenAI,
			APIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			DefaultModel: "gpt-4o",
			Timeout:      DefaultTimeout,
		}, nil
	case ProviderGrok:
		return ProviderConfig{
			Provider:     ProviderGrok,
			APIKey:       strings.TrimSpace(os.Getenv("XAI_API_KEY")),
			BaseURL:      "https://api.x.ai/v1",
			DefaultModel: "grok-2-vision-1212",
			Timeout:      DefaultTimeout,
		}, nil
	case ProviderOllama:
		return ProviderConfig{
			Provider:     ProviderOllama,
			BaseURL:      "http://localhost:11434",
			DefaultModel: "llama3.2-vision",
			Timeout:      DefaultTimeout,
		}, nil
	default:
		return ProviderConfig{}, fmt.Errorf("unknown provider: %s (use %s, %s or %s)",
			name, ProviderOpenAI, ProviderGrok, ProviderOllama)
	}
}

// DefaultCriterion returns the provider's default evaluation criterion.
func (c ProviderConfig) DefaultCriterion() string {
	switch c.Provider {
	case ProviderGrok:
		return "Kind person."
	default:
		return "attractive and compatible for dating"
	}
}

// Validate checks that the configuration is usable. A missing credential is
// a fatal configuration error for the hosted providers.
func (c ProviderConfig) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY must be set in environment or passed as parameter")
		}
	case ProviderGrok:
		if c.APIKey == "" {
			return fmt.Errorf("XAI_API_KEY must be set in environment or passed as parameter")
		}
	case ProviderOllama:
		// Local backend, no credential required
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
