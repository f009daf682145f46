package config

import (
	"testing"
	"time"
)

func TestForProviderOpenAI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "  sk-test  ")

	cfg, err := ForProvider(ProviderOpenAI)
	if err != nil {
		t.Fatalf("ForProvider failed: %v", err)
	}

	if cfg.APIKey != "sk-test" {
		t.Errorf("Expected trimmed key, got %q", cfg.APIKey)
	}
	if cfg.DefaultModel != "gpt-4o" {
		t.Errorf("Expected gpt-4o, got %s", cfg.DefaultModel)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Expected 60s timeout, got %v", cfg.Timeout)
	}
}

func TestForProviderGrok(t *testing.T) {
	t.Setenv("XAI_API_KEY", "xai-test")

	cfg, err := ForProvider(ProviderGrok)
	if err != nil {
		t.Fatalf("ForProvider failed: %v", err)
	}

	if cfg.APIKey != "xai-test" {
		t.Errorf("Expected key from XAI_API_KEY, got %q", cfg.APIKey)
	}
	if cfg.BaseURL != "https://api.x.ai/v1" {
		t.Errorf("Expected xAI base URL, got %s", cfg.BaseURL)
	}
	if cfg.DefaultModel != "grok-2-vision-1212" {
		t.Errorf("Expected grok vision model, got %s", cfg.DefaultModel)
	}
}

func TestForProviderOllama(t *testing.T) {
	cfg, err := ForProvider(ProviderOllama)
	if err != nil {
		t.Fatalf("ForProvider failed: %v", err)
	}

	if cfg.BaseURL != "http://localhost:11434" {
		t.Errorf("Expected local base URL, got %s", cfg.BaseURL)
	}
	if cfg.APIKey != "" {
		t.Errorf("Expected no API key for local backend, got %q", cfg.APIKey)
	}
}

func TestForProviderUnknown(t *testing.T) {
	if _, err := ForProvider("anthropic"); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestDefaultCriterion(t *testing.T) {
	grok := ProviderConfig{Provider: ProviderGrok}
	if grok.DefaultCriterion() != "Kind person." {
		t.Errorf("Unexpected grok criterion: %q", grok.DefaultCriterion())
	}

	openai := ProviderConfig{Provider: ProviderOpenAI}
	if openai.DefaultCriterion() != "attractive and compatible for dating" {
		t.Errorf("Unexpected default criterion: %q", openai.DefaultCriterion())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProviderConfig
		wantErr bool
	}{
		{"openai with key", ProviderConfig{Provider: ProviderOpenAI, APIKey: "sk-x", Timeout: time.Second}, false},
		{"openai missing key", ProviderConfig{Provider: ProviderOpenAI, Timeout: time.Second}, true},
		{"grok missing key", ProviderConfig{Provider: ProviderGrok, Timeout: time.Second}, true},
		{"ollama without key", ProviderConfig{Provider: ProviderOllama, Timeout: time.Second}, false},
		{"zero timeout", ProviderConfig{Provider: ProviderOllama}, true},
		{"unknown provider", ProviderConfig{Provider: "other", Timeout: time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
