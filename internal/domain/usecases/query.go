package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/0xcro3dile/docchat-go/internal/domain/apperr"
	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

// NotFoundAnswer is the phrase the model is told to use when the documents
// do not contain the answer.
const NotFoundAnswer = "I could not find the answer in the provided documents."

// DefaultSystemPrompt is sent as the system message on every call.
const DefaultSystemPrompt = "You are an AI assistant that answers questions based on the provided documents. Be concise and informative."

// GenerationConfig holds the fixed parameters of every completion call.
type GenerationConfig struct {
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

// DefaultGenerationConfig returns the stock generation parameters.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		SystemPrompt: DefaultSystemPrompt,
		Temperature:  0.7,
		MaxTokens:    500,
		Timeout:      60 * time.Second,
	}
}

// QueryUseCase turns a question plus document context into an answer.
type QueryUseCase struct {
	llm    ports.CompletionService
	config GenerationConfig
	logger arbor.ILogger
}

// NewQueryUseCase creates a QueryUseCase. Zero fields of cfg fall back to
// DefaultGenerationConfig, except Temperature, which is used as given.
func NewQueryUseCase(llm ports.CompletionService, cfg GenerationConfig, logger arbor.ILogger) *QueryUseCase {
	def := DefaultGenerationConfig()
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = def.SystemPrompt
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &QueryUseCase{
		llm:    llm,
		config: cfg,
		logger: logger,
	}
}

// Answer asks the completion service to answer query from documentContext.
// A blank query is rejected before any call is made. Every service failure,
// including the call exceeding the configured timeout, is UPSTREAM_SERVICE.
func (uc *QueryUseCase) Answer(ctx context.Context, documentContext, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", apperr.InvalidInput("query must not be empty")
	}

	prompt := BuildPrompt(documentContext, query)
	callCtx, cancel := context.WithTimeout(ctx, uc.config.Timeout)
	defer cancel()

	start := time.Now()
	answer, err := uc.llm.Complete(callCtx, ports.CompletionRequest{
		System:      uc.config.SystemPrompt,
		Prompt:      prompt,
		Temperature: uc.config.Temperature,
		MaxTokens:   uc.config.MaxTokens,
	})
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = errors.Join(err, context.DeadlineExceeded)
		}
		uc.logger.Error().
			Err(err).
			Str("provider", uc.llm.Provider()).
			Str("model", uc.llm.Model()).
			Int64("elapsed_ms", elapsed.Milliseconds()).
			Msg("Completion call failed")
		return "", apperr.Upstream(uc.llm.Provider(), err)
	}

	answer = strings.TrimSpace(answer)
	uc.logger.Debug().
		Str("provider", uc.llm.Provider()).
		Int("prompt_chars", len(prompt)).
		Int64("elapsed_ms", elapsed.Milliseconds()).
		Msg("Completion call succeeded")
	return answer, nil
}

// BuildPrompt embeds the document context and the question in the fixed
// instruction template.
func BuildPrompt(documentContext, query string) string {
	var sb strings.Builder
	sb.Grow(len(documentContext) + len(query) + 512)
	sb.WriteString("Use the following document content to answer the question. ")
	sb.WriteString("If you cannot find the answer in the documents, say \"")
	sb.WriteString(NotFoundAnswer)
	sb.WriteString("\"\nDo not make up information.\n\n")
	sb.WriteString("Documents:\n")
	sb.WriteString(documentContext)
	sb.WriteString("\n\nUser Question: ")
	sb.WriteString(query)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}
