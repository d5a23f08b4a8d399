package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// OpenAIGenerator calls Gemini through its OpenAI-compatible chat
// completions endpoint.
type OpenAIGenerator struct {
	client *openai.Client
}

// NewOpenAIGenerator creates a chat completions generator. An empty
// baseURL selects DefaultOpenAIBaseURL.
func NewOpenAIGenerator(apiKey, baseURL string) *OpenAIGenerator {
	config := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	config.BaseURL = strings.TrimRight(baseURL, "/")

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
	}
}

// Name returns the backend name
func (g *OpenAIGenerator) Name() string {
	return BackendOpenAI
}

// Generate sends prompt as a single user message.
func (g *OpenAIGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", fmt.Errorf("%w: finish reason %s", ErrBlocked, choice.FinishReason)
	}
	if choice.Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return choice.Message.Content, nil
}
