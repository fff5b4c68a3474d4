package generativeAI

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// ClientConfig carries the generative provider credential and model name,
// injected at construction.
type ClientConfig struct {
	APIKey string
	Model  string
}

type AIClient struct {
	client *genai.Client
	model  string
}

func NewAIClient(ctx context.Context, cfg ClientConfig) (*AIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generative provider API key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client: client,
		model:  cfg.Model,
	}, nil
}

// GenerateContent sends a single prompt and returns the first candidate's
// text, empty when the model produced no candidates.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return result.Text(), nil
}
