package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/bidwriter/backend/internal/domain"
)

const (
	refineTemperature  = 0.6
	refineContextRunes = 500
)

// RefineInput describes one rewrite of an existing bid
type RefineInput struct {
	OriginalBid        string
	RefinementType     string
	CustomInstruction  string
	ProjectDescription string
}

// BidRefiner rewrites an existing bid following a refinement instruction
type BidRefiner struct {
	generator domain.TextGenerator
}

// NewBidRefiner creates a bid refiner
func NewBidRefiner(generator domain.TextGenerator) *BidRefiner {
	return &BidRefiner{generator: generator}
}

// Refine returns the rewritten bid
func (r *BidRefiner) Refine(ctx context.Context, in RefineInput) (string, error) {
	if strings.TrimSpace(in.OriginalBid) == "" {
		return "", fmt.Errorf("%w: original bid is required", domain.ErrInvalidRequest)
	}

	instruction := refinementInstruction(in.RefinementType, in.CustomInstruction)
	response, err := r.generator.Generate(ctx,
		refineUserPrompt(in.OriginalBid, truncateRunes(in.ProjectDescription, refineContextRunes)),
		refineSystemPrompt(instruction),
		refineTemperature,
	)
	if err != nil {
		return "", fmt.Errorf("refine bid: %w", wrapLLMError(err))
	}

	return stripWrappingQuotes(response), nil
}
