package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/bidwriter/backend/internal/domain"
	"golang.org/x/time/rate"
)

// maxBurst caps how many calls may go out back to back
const maxBurst = 5

// RateLimited bounds the outbound request rate of a generator
type RateLimited struct {
	next        domain.TextGenerator
	rateLimiter *rate.Limiter
}

// NewRateLimited wraps next so that it issues at most requestsPerMinute calls per minute
func NewRateLimited(next domain.TextGenerator, requestsPerMinute int) *RateLimited {
	burst := min(requestsPerMinute, maxBurst)
	if burst < 1 {
		burst = 1
	}

	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), burst)

	return &RateLimited{next: next, rateLimiter: limiter}
}

// Name returns the wrapped provider's name
func (r *RateLimited) Name() string {
	return r.next.Name()
}

// Generate waits for the limiter and then delegates
func (r *RateLimited) Generate(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
	if err := r.rateLimiter.Wait(ctx); err != nil {
		log.Printf("[LLM] Rate limiter error: %v", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	return r.next.Generate(ctx, prompt, systemPrompt, temperature)
}
