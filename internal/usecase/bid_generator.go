package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bidwriter/backend/internal/domain"
	"github.com/google/uuid"
)

const bidTemperature = 0.7

// Bid length bands used to adjust confidence
const (
	idealMinWords    = 100
	idealMaxWords    = 250
	tooShortWords    = 50
	tooLongWords     = 400
	idealLengthBonus = 10.0
	tooShortPenalty  = 20.0
	tooLongPenalty   = 15.0
)

// BidInput is everything known about a project when writing a bid
type BidInput struct {
	ProjectName        string
	ProjectDescription string
	BidRank            *int
	TotalBids          *int
	YourBidAmount      *string
	BudgetRange        *string
}

// BidGenerator writes bid proposals and records them in the history
type BidGenerator struct {
	generator domain.TextGenerator
	analyzer  *ProjectAnalyzer
	history   domain.HistoryRepository
	profile   domain.Profile
	now       func() time.Time
}

// NewBidGenerator creates a bid generator. history may be nil.
func NewBidGenerator(
	generator domain.TextGenerator,
	analyzer *ProjectAnalyzer,
	history domain.HistoryRepository,
	profile domain.Profile,
) *BidGenerator {
	return &BidGenerator{
		generator: generator,
		analyzer:  analyzer,
		history:   history,
		profile:   profile,
		now:       time.Now,
	}
}

// Generate analyzes the project and writes a bid for it.
// Flow: analyze -> learning context -> LLM -> record pending bid -> score
func (g *BidGenerator) Generate(ctx context.Context, in BidInput) (*domain.GeneratedBid, error) {
	analysis, err := g.analyzer.Analyze(ctx, in.ProjectDescription, in.ProjectName)
	if err != nil {
		return nil, err
	}

	response, err := g.generator.Generate(ctx,
		bidUserPrompt(in, analysis, g.profile),
		bidSystemPrompt(g.profile, g.learningContext(ctx)),
		bidTemperature,
	)
	if err != nil {
		return nil, fmt.Errorf("generate bid: %w", wrapLLMError(err))
	}

	bidText := strings.TrimSpace(response)
	g.record(ctx, in, bidText)

	wordCount := countWords(bidText)
	return &domain.GeneratedBid{
		BidText:         bidText,
		ProjectAnalysis: *analysis,
		WordCount:       wordCount,
		ConfidenceScore: confidenceScore(analysis.SkillMatchScore, wordCount),
	}, nil
}

// learningContext is best effort: a history read failure only loses the context
func (g *BidGenerator) learningContext(ctx context.Context) string {
	if g.history == nil {
		return ""
	}
	records, err := g.history.All(ctx)
	if err != nil {
		log.Printf("[HISTORY] Failed to load bid history: %v", err)
		return ""
	}
	return BuildLearningContext(records)
}

// record stores the bid as pending so its outcome can be reported later
func (g *BidGenerator) record(ctx context.Context, in BidInput, bidText string) {
	if g.history == nil {
		return
	}

	record := &domain.BidRecord{
		ID:                 uuid.NewString(),
		Timestamp:          g.now().UTC(),
		ProjectName:        in.ProjectName,
		ProjectDescription: truncateRunes(in.ProjectDescription, storedDescriptionRunes),
		GeneratedBid:       bidText,
		TotalBids:          in.TotalBids,
		BudgetRange:        in.BudgetRange,
	}
	if err := g.history.Add(ctx, record); err != nil {
		log.Printf("[HISTORY] Failed to record bid for %q: %v", in.ProjectName, err)
	}
}

// confidenceScore starts from the skill match and adjusts for bid length
func confidenceScore(skillMatch float64, wordCount int) float64 {
	confidence := skillMatch

	switch {
	case wordCount >= idealMinWords && wordCount <= idealMaxWords:
		confidence = min(100, confidence+idealLengthBonus)
	case wordCount < tooShortWords:
		confidence = max(0, confidence-tooShortPenalty)
	case wordCount > tooLongWords:
		confidence = max(0, confidence-tooLongPenalty)
	}

	return roundTenth(confidence)
}
