package llm

import (
	"context"
	"fmt"
	"strings"
)

// Generator abstracts a text-generation backend so pipelines and tests can
// inject their own implementation instead of a live service.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// GenerationError wraps a failure from a generation backend.
type GenerationError struct {
	Backend string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation error: %v", e.Backend, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerator builds a Generator for the configured provider.
// Supported providers are "gemini" and "openai".
func NewGenerator(provider, apiKey, model string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "gemini":
		return NewGeminiGenerator(apiKey, model)
	case "openai":
		return NewOpenAIGenerator(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}
