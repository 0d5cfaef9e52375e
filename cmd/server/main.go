package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/bidwriter/backend/config"
	httpDelivery "github.com/bidwriter/backend/internal/delivery/http"
	"github.com/bidwriter/backend/internal/domain"
	"github.com/bidwriter/backend/internal/infrastructure/cache"
	"github.com/bidwriter/backend/internal/infrastructure/history"
	"github.com/bidwriter/backend/internal/infrastructure/llm"
	"github.com/bidwriter/backend/internal/infrastructure/pagetext"
	"github.com/bidwriter/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Bid Writer Backend v%s", httpDelivery.Version)
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	ctx := context.Background()

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)
	defer memoryCache.Close()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// A missing API key leaves the bid endpoints answering 503
	var generator domain.TextGenerator
	generator, err = llm.NewGenerator(ctx, cfg.LLM)
	switch {
	case errors.Is(err, domain.ErrLLMNotConfigured):
		log.Printf("WARNING: %s API key NOT CONFIGURED - bid generation is disabled", cfg.LLM.Provider)
		generator = nil
	case err != nil:
		log.Fatalf("Failed to create LLM client: %v", err)
	default:
		log.Printf("LLM: %s (model %s, %d requests/min)", cfg.LLM.Provider, cfg.LLM.Model(), cfg.LLM.RequestsPerMinute)
	}

	historyRepo, closeHistory, err := newHistoryRepository(cfg.History)
	if err != nil {
		log.Fatalf("Failed to open bid history: %v", err)
	}
	defer closeHistory()

	var fetcher domain.PageFetcher
	if cfg.Fetcher.Enabled {
		fetcher = pagetext.NewFetcher(pagetext.FetcherConfig{
			Timeout:    cfg.Fetcher.Timeout,
			ChromePath: cfg.Fetcher.ChromePath,
		})
		log.Printf("Page fetcher enabled (timeout %s)", cfg.Fetcher.Timeout)
	}

	profile := domain.Profile{
		Name:               cfg.Profile.Name,
		GitHub:             cfg.Profile.GitHub,
		LinkedIn:           cfg.Profile.LinkedIn,
		Resume:             cfg.Profile.Resume,
		Skills:             cfg.Profile.Skills,
		DefaultTurnaround:  cfg.Profile.DefaultTurnaround,
		IncludeSamples:     cfg.Profile.IncludeSamples,
		CompetitivePricing: cfg.Profile.CompetitivePricing,
	}

	// Initialize usecase layer
	bidService := usecase.NewBidService(
		generator,
		memoryCache,
		historyRepo,
		fetcher,
		usecase.BidServiceConfig{
			Profile:      profile,
			CacheTTL:     cfg.Cache.TTL,
			DebugParsing: cfg.Parser.Debug,
		},
	)

	log.Printf("Profile: %q, %d skills, history backend %s", profile.Name, len(profile.Skills), cfg.History.Backend)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(bidService, httpDelivery.HandlerConfig{
		Provider:       cfg.LLM.Provider,
		Profile:        profile,
		FetcherEnabled: cfg.Fetcher.Enabled,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newHistoryRepository opens the configured bid history backend
func newHistoryRepository(cfg config.HistoryConfig) (domain.HistoryRepository, func(), error) {
	switch cfg.Backend {
	case config.HistoryPostgres:
		store, err := history.NewPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("[HISTORY] Close failed: %v", err)
			}
		}, nil
	default:
		return history.NewJSONStore(cfg.Path), func() {}, nil
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
