package llm

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/docchat-go/internal/domain/apperr"
	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

func TestNewCompletionService_Providers(t *testing.T) {
	tests := []struct {
		provider string
		wantType interface{}
	}{
		{"openai", &OpenAIAdapter{}},
		{"", &OpenAIAdapter{}},
		{"Claude", &ClaudeAdapter{}},
		{"ollama", &OllamaAdapter{}},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			svc, err := NewCompletionService(context.Background(), Config{Provider: tt.provider, APIKey: "k"})
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, svc)
		})
	}
}

func TestNewCompletionService_Unknown(t *testing.T) {
	_, err := NewCompletionService(context.Background(), Config{Provider: "bard", APIKey: "k"})
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestNewCompletionService_MissingKey(t *testing.T) {
	_, err := NewCompletionService(context.Background(), Config{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewCompletionService(context.Background(), Config{Provider: "ollama"})
	assert.NoError(t, err, "ollama needs no key")
}

func TestNewCompletionService_WrapsRateLimit(t *testing.T) {
	svc, err := NewCompletionService(context.Background(), Config{Provider: "openai", APIKey: "k", RateLimit: 60})
	require.NoError(t, err)

	assert.IsType(t, &RateLimitedService{}, svc)
	assert.Equal(t, ProviderOpenAI, svc.Provider())
	assert.Equal(t, "gpt-3.5-turbo", svc.Model())
}

func TestRequiresAPIKey(t *testing.T) {
	assert.True(t, RequiresAPIKey("openai"))
	assert.True(t, RequiresAPIKey("gemini"))
	assert.False(t, RequiresAPIKey("Ollama"))
}

// countingService implements ports.CompletionService for testing.
type countingService struct {
	calls atomic.Int32
}

func (c *countingService) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	c.calls.Add(1)
	return "ok", nil
}
func (c *countingService) Provider() string { return "counting" }
func (c *countingService) Model() string    { return "m" }

func TestRateLimitedService_BurstThenBlocks(t *testing.T) {
	inner := &countingService{}
	svc := NewRateLimitedService(inner, 1, 2) // one per minute after a burst of two

	for i := 0; i < 2; i++ {
		_, err := svc.Complete(context.Background(), ports.CompletionRequest{})
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := svc.Complete(ctx, ports.CompletionRequest{})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, apperr.Upstream("counting", err), apperr.ErrTimeout)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestRateLimitedService_CancelIsNotTimeout(t *testing.T) {
	svc := NewRateLimitedService(&countingService{}, 1, 1)
	_, err := svc.Complete(context.Background(), ports.CompletionRequest{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Complete(ctx, ports.CompletionRequest{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewCompletionService_PassesBurst(t *testing.T) {
	svc, err := NewCompletionService(context.Background(), Config{Provider: "openai", APIKey: "k", RateLimit: 60, Burst: 3})
	require.NoError(t, err)

	limited, ok := svc.(*RateLimitedService)
	require.True(t, ok)
	assert.Equal(t, 3, limited.limiter.Burst())
}
