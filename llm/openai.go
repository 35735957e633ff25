package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const defaultOpenAIMaxTokens = 1024

// OpenAIGenerator generates text through OpenAI's Responses API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.ChatModelGPT5Mini2025_08_07
	}
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = defaultOpenAIMaxTokens
	}

	resp, err := g.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           g.model,
		MaxOutputTokens: openai.Int(int64(maxTokens)),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	})
	if err != nil {
		return "", &GenerationError{Backend: "openai", Err: err}
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return "", &GenerationError{Backend: "openai", Err: errors.New("output text is missing")}
	}
	return text, nil
}
