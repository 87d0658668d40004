package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

// Supported provider names.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Providers lists every provider NewCompletionService accepts.
var Providers = []string{ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderOllama}

// Config selects and configures a completion provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string

	// RateLimit caps calls per minute across all callers; 0 disables it.
	RateLimit float64
	Burst     int
}

// RequiresAPIKey reports whether provider needs a credential.
func RequiresAPIKey(provider string) bool {
	return strings.ToLower(provider) != ProviderOllama
}

// NewCompletionService builds the configured provider, wrapped in a rate
// limiter when one is configured.
func NewCompletionService(ctx context.Context, cfg Config) (ports.CompletionService, error) {
	var (
		svc ports.CompletionService
		err error
	)

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI, "":
		svc, err = NewOpenAIAdapter(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderClaude:
		svc, err = NewClaudeAdapter(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderGemini:
		svc, err = NewGeminiAdapter(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderOllama:
		svc = NewOllamaAdapter(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (supported: %s)", cfg.Provider, strings.Join(Providers, ", "))
	}
	if err != nil {
		return nil, err
	}

	if cfg.RateLimit > 0 {
		svc = NewRateLimitedService(svc, cfg.RateLimit, cfg.Burst)
	}
	return svc, nil
}
