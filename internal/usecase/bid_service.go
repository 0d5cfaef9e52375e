package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bidwriter/backend/internal/domain"
	"github.com/bidwriter/backend/internal/infrastructure/pagetext"
)

// defaultProjectName is used when the pasted page had no recognisable title
const defaultProjectName = "Project"

// BidServiceConfig holds configuration for the bid service
type BidServiceConfig struct {
	Profile      domain.Profile
	CacheTTL     time.Duration
	DebugParsing bool
}

// BidService ties listing parsing, bid writing and the bid history together.
// The LLM-backed operations return ErrLLMNotConfigured when no generator is set.
type BidService struct {
	extractor *ListingExtractor
	llm       domain.TextGenerator
	generator *BidGenerator
	optimizer *BidOptimizer
	refiner   *BidRefiner
	history   domain.HistoryRepository
	fetcher   domain.PageFetcher
}

// NewBidService creates the bid service with its dependencies.
// llm, cache and fetcher may be nil.
func NewBidService(
	llm domain.TextGenerator,
	cache domain.CacheRepository,
	history domain.HistoryRepository,
	fetcher domain.PageFetcher,
	config BidServiceConfig,
) *BidService {
	s := &BidService{
		extractor: NewListingExtractor(config.DebugParsing),
		llm:       llm,
		history:   history,
		fetcher:   fetcher,
	}

	if llm != nil {
		analyzer := NewProjectAnalyzer(llm, cache, config.Profile, AnalyzerConfig{CacheTTL: config.CacheTTL})
		s.generator = NewBidGenerator(llm, analyzer, history, config.Profile)
		s.optimizer = NewBidOptimizer(llm)
		s.refiner = NewBidRefiner(llm)
	}

	return s
}

// LLMAvailable reports whether bid generation is possible
func (s *BidService) LLMAvailable() bool {
	return s.llm != nil
}

// ParseListing turns pasted page content into a structured listing
func (s *BidService) ParseListing(raw string) (*domain.ParsedListing, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: raw_content is required", domain.ErrInvalidRequest)
	}
	return s.extractor.Parse(pagetext.Normalize(raw)), nil
}

// FetchAndParse loads a listing page and parses its text
func (s *BidService) FetchAndParse(ctx context.Context, url string) (*domain.ParsedListing, error) {
	if s.fetcher == nil {
		return nil, domain.ErrFetcherDisabled
	}

	text, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.extractor.Parse(text), nil
}

// GenerateBid writes a bid and, best effort, optimization advice for it
func (s *BidService) GenerateBid(ctx context.Context, req *domain.BidRequest) (*domain.BidResponse, error) {
	if s.generator == nil {
		return nil, domain.ErrLLMNotConfigured
	}
	if req == nil || strings.TrimSpace(req.ProjectDescription) == "" {
		return nil, fmt.Errorf("%w: project_description is required", domain.ErrInvalidRequest)
	}

	return s.generateAndOptimize(ctx, BidInput{
		ProjectName:        req.ProjectName,
		ProjectDescription: req.ProjectDescription,
		BidRank:            req.BidRank,
		TotalBids:          req.TotalBids,
		YourBidAmount:      req.YourBidAmount,
	}, req.WinningBidAmount)
}

// SmartGenerateBid parses pasted page content and writes a bid from it in one step
func (s *BidService) SmartGenerateBid(ctx context.Context, raw string) (*domain.BidResponse, error) {
	if s.generator == nil {
		return nil, domain.ErrLLMNotConfigured
	}

	parsed, err := s.ParseListing(raw)
	if err != nil {
		return nil, err
	}

	name := defaultProjectName
	if parsed.ProjectName != nil {
		name = *parsed.ProjectName
	}

	resp, err := s.generateAndOptimize(ctx, BidInput{
		ProjectName:        name,
		ProjectDescription: parsed.ProjectDescription,
		BidRank:            parsed.BidRank,
		TotalBids:          parsed.TotalBids,
		YourBidAmount:      parsed.AverageBid,
		BudgetRange:        parsed.BudgetRange,
	}, nil)
	if err != nil {
		return nil, err
	}

	resp.Parsed = parsed
	return resp, nil
}

func (s *BidService) generateAndOptimize(ctx context.Context, in BidInput, winningBid *string) (*domain.BidResponse, error) {
	bid, err := s.generator.Generate(ctx, in)
	if err != nil {
		return nil, err
	}

	resp := &domain.BidResponse{
		BidText:         bid.BidText,
		ProjectAnalysis: bid.ProjectAnalysis,
		WordCount:       bid.WordCount,
		ConfidenceScore: bid.ConfidenceScore,
	}

	optimization, err := s.optimizer.Optimize(ctx, OptimizeInput{
		BidText:          bid.BidText,
		BidRank:          in.BidRank,
		TotalBids:        in.TotalBids,
		YourBidAmount:    in.YourBidAmount,
		WinningBidAmount: winningBid,
		Analysis:         &bid.ProjectAnalysis,
	})
	if err != nil {
		log.Printf("[OPTIMIZER] Optimization skipped: %v", err)
	} else {
		resp.Optimization = optimization
	}

	return resp, nil
}

// RefineBid rewrites an existing bid
func (s *BidService) RefineBid(ctx context.Context, req *domain.RefineRequest) (string, error) {
	if s.refiner == nil {
		return "", domain.ErrLLMNotConfigured
	}
	if req == nil {
		return "", domain.ErrInvalidRequest
	}

	return s.refiner.Refine(ctx, RefineInput{
		OriginalBid:        req.OriginalBid,
		RefinementType:     req.RefinementType,
		CustomInstruction:  req.CustomInstruction,
		ProjectDescription: req.ProjectDescription,
	})
}

// HistoryStats summarises the bid history
func (s *BidService) HistoryStats(ctx context.Context) (domain.HistoryStats, error) {
	if s.history == nil {
		return ComputeHistoryStats(nil), nil
	}

	records, err := s.history.All(ctx)
	if err != nil {
		return domain.HistoryStats{}, fmt.Errorf("load bid history: %w", err)
	}
	return ComputeHistoryStats(records), nil
}

// UpdateBidResult records whether the latest pending bid for a project was won
func (s *BidService) UpdateBidResult(ctx context.Context, req *domain.BidResultRequest) error {
	if req == nil || strings.TrimSpace(req.ProjectName) == "" || req.Won == nil {
		return fmt.Errorf("%w: project_name and won are required", domain.ErrInvalidRequest)
	}
	if s.history == nil {
		return domain.ErrBidNotFound
	}

	return s.history.UpdateResult(ctx, req.ProjectName, *req.Won)
}
