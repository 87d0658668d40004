package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

const defaultClaudeModel = "claude-3-5-haiku-latest"

// ClaudeAdapter implements ports.CompletionService with the Anthropic Messages API.
type ClaudeAdapter struct {
	client anthropic.Client
	model  string
}

// NewClaudeAdapter creates a Claude adapter. The SDK's automatic retries are
// disabled; a failed call surfaces immediately.
func NewClaudeAdapter(baseURL, apiKey, model string) (*ClaudeAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("claude: API key is required")
	}
	if model == "" {
		model = defaultClaudeModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &ClaudeAdapter{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

// Complete sends a single user message and returns the concatenated text blocks.
func (a *ClaudeAdapter) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(req.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("calling Claude: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("Claude returned no text content")
	}
	return text.String(), nil
}

// Provider returns "claude".
func (a *ClaudeAdapter) Provider() string { return ProviderClaude }

// Model returns the configured model.
func (a *ClaudeAdapter) Model() string { return a.model }
