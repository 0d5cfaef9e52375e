package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/bidwriter/backend/internal/domain"
)

const (
	optimizerTemperature  = 0.4
	defaultWinProbability = 50.0
	minWinProbability     = 20.0
	rankPenaltyScale      = 80.0
)

// OptimizeInput is a generated bid plus what is known about the competition
type OptimizeInput struct {
	BidText          string
	BidRank          *int
	TotalBids        *int
	YourBidAmount    *string
	WinningBidAmount *string
	Analysis         *domain.ProjectAnalysis
}

// BidOptimizer suggests pricing and positioning improvements for a bid
type BidOptimizer struct {
	generator domain.TextGenerator
}

// NewBidOptimizer creates a bid optimizer
func NewBidOptimizer(generator domain.TextGenerator) *BidOptimizer {
	return &BidOptimizer{generator: generator}
}

type optimizationPayload struct {
	PricingAdvice           *string  `json:"pricing_advice"`
	PositioningAdvice       *string  `json:"positioning_advice"`
	Improvements            []string `json:"improvements"`
	Warnings                []string `json:"warnings"`
	EstimatedWinProbability *float64 `json:"estimated_win_probability"`
}

// Optimize asks the LLM for suggestions. An unreadable reply yields
// heuristic defaults instead of an error.
func (o *BidOptimizer) Optimize(ctx context.Context, in OptimizeInput) (*domain.BidOptimization, error) {
	response, err := o.generator.Generate(ctx, optimizerUserPrompt(in), optimizerSystemPrompt, optimizerTemperature)
	if err != nil {
		return nil, fmt.Errorf("optimize bid: %w", wrapLLMError(err))
	}

	var payload optimizationPayload
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &payload); err != nil {
		log.Printf("[OPTIMIZER] Could not decode suggestions (%v), using defaults", err)
		return fallbackOptimization(in), nil
	}

	winProbability := defaultWinProbability
	if payload.EstimatedWinProbability != nil {
		winProbability = *payload.EstimatedWinProbability
	}

	return &domain.BidOptimization{
		PricingAdvice:           stringOr(payload.PricingAdvice, "Pricing appears competitive"),
		PositioningAdvice:       stringOr(payload.PositioningAdvice, "Good positioning"),
		Improvements:            orEmpty(payload.Improvements),
		Warnings:                orEmpty(payload.Warnings),
		EstimatedWinProbability: clamp(winProbability, 0, 100),
	}, nil
}

// fallbackOptimization derives advice from rank and bid amount alone
func fallbackOptimization(in OptimizeInput) *domain.BidOptimization {
	pricing := "Research competitor bids - aim for middle range to balance value and competitiveness"
	if in.YourBidAmount != nil && *in.YourBidAmount != "" {
		pricing = fmt.Sprintf("Your bid of %s looks reasonable for this project", *in.YourBidAmount)
	}

	return &domain.BidOptimization{
		PricingAdvice:     pricing,
		PositioningAdvice: "Emphasize unique skills and quick turnaround to stand out",
		Improvements: []string{
			"Add a concrete timeline or milestone breakdown",
			"Include specific technologies you'll use",
			"Mention 1-2 similar projects you've completed",
		},
		Warnings:                []string{},
		EstimatedWinProbability: rankWinProbability(in.BidRank, in.TotalBids),
	}
}

// rankWinProbability is max(20, 100 - rank/total*80), or 50 when the rank is unknown
func rankWinProbability(rank, total *int) float64 {
	if rank == nil || total == nil || *rank <= 0 || *total <= 0 {
		return defaultWinProbability
	}
	p := 100 - float64(*rank)/float64(*total)*rankPenaltyScale
	return roundTenth(max(minWinProbability, p))
}
