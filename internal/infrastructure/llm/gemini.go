// Package llm provides the text generation backends used by the bid pipeline.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bidwriter/backend/internal/domain"
	"google.golang.org/genai"
)

// geminiFallbackModels are tried in order after the configured model runs out of quota
var geminiFallbackModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.5-pro",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
}

// contentGenerator is the subset of *genai.Models used by GeminiClient
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient generates text with the Gemini API
type GeminiClient struct {
	models    contentGenerator
	model     string
	maxTokens int
}

// NewGeminiClient creates a Gemini client for the given model
func NewGeminiClient(ctx context.Context, apiKey, model string, maxTokens int) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is empty", domain.ErrLLMNotConfigured)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{models: client.Models, model: model, maxTokens: maxTokens}, nil
}

// Name returns the provider name
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Generate sends the system and user prompt as one message. When a model's quota is
// exhausted the next fallback model is tried; any other error fails immediately.
func (c *GeminiClient) Generate(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
	fullPrompt := prompt
	if systemPrompt != "" {
		fullPrompt = systemPrompt + "\n\n" + prompt
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: int32(c.maxTokens),
	}

	var lastErr error
	for _, model := range c.modelsToTry() {
		resp, err := c.models.GenerateContent(ctx, model, genai.Text(fullPrompt), config)
		if err == nil {
			return resp.Text(), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if !isQuotaError(err) {
			log.Printf("[GEMINI] Request to %s failed: %v", model, err)
			return "", fmt.Errorf("%w: gemini %s: %v", domain.ErrLLMFailure, model, err)
		}

		log.Printf("[GEMINI] Quota exceeded for %s, trying next model", model)
		lastErr = err
	}

	return "", fmt.Errorf("%w: all gemini models exhausted, last error: %v", domain.ErrLLMQuotaExhausted, lastErr)
}

// modelsToTry returns the configured model followed by the fallbacks, without repeats
func (c *GeminiClient) modelsToTry() []string {
	models := make([]string, 0, len(geminiFallbackModels)+1)
	seen := make(map[string]bool, len(geminiFallbackModels)+1)
	for _, m := range append([]string{c.model}, geminiFallbackModels...) {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		models = append(models, m)
	}
	return models
}

// isQuotaError reports whether a provider error signals rate or quota exhaustion
func isQuotaError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted")
}
