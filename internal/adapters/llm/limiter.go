package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/0xcro3dile/docchat-go/internal/domain/ports"
)

// RateLimitedService paces calls to a CompletionService. Callers over the
// limit wait for a token; a caller whose context ends while waiting fails.
type RateLimitedService struct {
	next    ports.CompletionService
	limiter *rate.Limiter
}

// NewRateLimitedService allows perMinute calls per minute with the given burst.
func NewRateLimitedService(next ports.CompletionService, perMinute float64, burst int) *RateLimitedService {
	if burst <= 0 {
		burst = 1
	}
	every := time.Duration(float64(time.Minute) / perMinute)
	return &RateLimitedService{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(every), burst),
	}
}

// Complete waits for a token and then delegates.
func (s *RateLimitedService) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
			// Wait fails early when no token frees up before the deadline.
			err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return s.next.Complete(ctx, req)
}

// Provider returns the wrapped provider's name.
func (s *RateLimitedService) Provider() string { return s.next.Provider() }

// Model returns the wrapped provider's model.
func (s *RateLimitedService) Model() string { return s.next.Model() }
