package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/bidwriter/backend/internal/domain"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
)

// chatModel is the subset of llms.Model used by ChatClient
type chatModel interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// ChatClient generates text with a langchaingo chat model
type ChatClient struct {
	name      string
	model     chatModel
	maxTokens int
}

// NewOpenAIClient creates an OpenAI chat client
func NewOpenAIClient(apiKey, model string, maxTokens int) (*ChatClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: openai API key is empty", domain.ErrLLMNotConfigured)
	}

	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	return &ChatClient{name: "openai", model: llm, maxTokens: maxTokens}, nil
}

// NewAnthropicClient creates an Anthropic chat client
func NewAnthropicClient(apiKey, model string, maxTokens int) (*ChatClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: anthropic API key is empty", domain.ErrLLMNotConfigured)
	}

	llm, err := anthropic.New(anthropic.WithToken(apiKey), anthropic.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic client: %w", err)
	}

	return &ChatClient{name: "anthropic", model: llm, maxTokens: maxTokens}, nil
}

// Name returns the provider name
func (c *ChatClient) Name() string {
	return c.name
}

// Generate sends a system message (when given) and the user prompt
func (c *ChatClient) Generate(ctx context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
	messages := make([]llms.MessageContent, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		log.Printf("[LLM] %s request failed: %v", c.name, err)
		if isQuotaError(err) {
			return "", fmt.Errorf("%w: %s: %v", domain.ErrLLMQuotaExhausted, c.name, err)
		}
		return "", fmt.Errorf("%w: %s: %v", domain.ErrLLMFailure, c.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: %s returned no choices", domain.ErrLLMFailure, c.name)
	}

	return resp.Choices[0].Content, nil
}
