package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrLLMNotConfigured is returned when no API key is set for the selected provider
	ErrLLMNotConfigured = errors.New("LLM client not configured")

	// ErrLLMFailure is returned when the LLM provider request fails
	ErrLLMFailure = errors.New("LLM request failed")

	// ErrLLMQuotaExhausted is returned when every fallback model hit its quota
	ErrLLMQuotaExhausted = errors.New("LLM quota exhausted")

	// ErrBidNotFound is returned when no pending bid matches a project name
	ErrBidNotFound = errors.New("no pending bid for project")

	// ErrFetchFailed is returned when a listing page could not be loaded
	ErrFetchFailed = errors.New("listing page fetch failed")

	// ErrFetcherDisabled is returned when page fetching is turned off
	ErrFetcherDisabled = errors.New("listing page fetcher disabled")
)
