package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/bidwriter/backend/config"
	"github.com/bidwriter/backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// BidService is the usecase surface the handlers depend on
type BidService interface {
	LLMAvailable() bool
	ParseListing(raw string) (*domain.ParsedListing, error)
	FetchAndParse(ctx context.Context, url string) (*domain.ParsedListing, error)
	GenerateBid(ctx context.Context, req *domain.BidRequest) (*domain.BidResponse, error)
	SmartGenerateBid(ctx context.Context, raw string) (*domain.BidResponse, error)
	RefineBid(ctx context.Context, req *domain.RefineRequest) (string, error)
	HistoryStats(ctx context.Context) (domain.HistoryStats, error)
	UpdateBidResult(ctx context.Context, req *domain.BidResultRequest) error
}

// HandlerConfig holds the non-secret settings exposed by the info endpoints
type HandlerConfig struct {
	Provider           string
	Profile            domain.Profile
	FetcherEnabled     bool
	AvailableModels    map[string][]string
	AvailableProviders []string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	bidService BidService
	config     HandlerConfig
}

// NewHandler creates a new HTTP handler
func NewHandler(bidService BidService, cfg HandlerConfig) *Handler {
	if cfg.AvailableModels == nil {
		cfg.AvailableModels = config.AvailableModels
	}
	if cfg.AvailableProviders == nil {
		cfg.AvailableProviders = config.Providers
	}

	return &Handler{bidService: bidService, config: cfg}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"service":       "bidwriter-backend",
		"version":       Version,
		"llm_available": h.bidService.LLMAvailable(),
		"ai_provider":   h.config.Provider,
	})
}

// GetConfig returns the active profile and provider settings. API keys are never included.
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"profile":             h.config.Profile,
		"ai_provider":         h.config.Provider,
		"fetcher_enabled":     h.config.FetcherEnabled,
		"available_providers": h.config.AvailableProviders,
		"available_models":    h.config.AvailableModels,
	})
}

// ParseProject extracts listing fields from pasted page content
func (h *Handler) ParseProject(c *gin.Context) {
	var req domain.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "raw_content is required"})
		return
	}

	parsed, err := h.bidService.ParseListing(req.RawContent)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, parsed)
}

// FetchProject loads a listing page by URL and parses it
func (h *Handler) FetchProject(c *gin.Context) {
	var req domain.FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	parsed, err := h.bidService.FetchAndParse(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, parsed)
}

// GenerateBid writes a bid from an explicit project description
func (h *Handler) GenerateBid(c *gin.Context) {
	var req domain.BidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_name and project_description are required"})
		return
	}

	resp, err := h.bidService.GenerateBid(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SmartGenerateBid parses pasted page content and writes a bid from it
func (h *Handler) SmartGenerateBid(c *gin.Context) {
	var req domain.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "raw_content is required"})
		return
	}

	resp, err := h.bidService.SmartGenerateBid(c.Request.Context(), req.RawContent)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RefineBid rewrites an existing bid
func (h *Handler) RefineBid(c *gin.Context) {
	var req domain.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	refined, err := h.bidService.RefineBid(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"refined_bid": refined})
}

// MemoryStats returns bid history statistics
func (h *Handler) MemoryStats(c *gin.Context) {
	stats, err := h.bidService.HistoryStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// UpdateBidResult records whether a bid was won
func (h *Handler) UpdateBidResult(c *gin.Context) {
	var req domain.BidResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_name and won are required"})
		return
	}

	if err := h.bidService.UpdateBidResult(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrBidNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrLLMNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "LLM client not configured. Please set up your API keys in .env file.",
		})
	case errors.Is(err, domain.ErrFetcherDisabled):
		c.JSON(http.StatusNotImplemented, gin.H{"error": "page fetching is disabled"})
	case errors.Is(err, domain.ErrLLMQuotaExhausted),
		errors.Is(err, domain.ErrLLMFailure),
		errors.Is(err, domain.ErrFetchFailed):
		log.Printf("[HTTP] Upstream error on %s: %v", c.FullPath(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] Internal error on %s: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
