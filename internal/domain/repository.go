package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// TextGenerator is the LLM provider abstraction used by the bid pipeline
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error)
}

// HistoryRepository persists generated bids and their outcomes
type HistoryRepository interface {
	Add(ctx context.Context, record *BidRecord) error
	Recent(ctx context.Context, limit int) ([]BidRecord, error)
	All(ctx context.Context) ([]BidRecord, error)
	// UpdateResult marks the latest pending bid for projectName as won or lost
	UpdateResult(ctx context.Context, projectName string, won bool) error
}

// PageFetcher loads a listing page and returns its rendered text
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
