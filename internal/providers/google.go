package providers

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/kickai/kickai/internal/kerrors"
)

// GoogleConfig configures a GoogleClient.
type GoogleConfig struct {
	APIKey       string
	DefaultModel string
}

// GoogleClient adapts the Gemini GenerateContent API to providers.Client.
// Grounded on the teacher's GoogleProvider, trimmed to a single non-streaming
// call — no retry/backoff loop, no vision/attachment handling, no tool-call
// streaming, since this core executes tools through the tool registry
// rather than an LLM-driven tool loop.
type GoogleClient struct {
	client *genai.Client
	model  string
}

// NewGoogleClient validates config and builds a ready-to-use client.
func NewGoogleClient(cfg GoogleConfig) (*GoogleClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, kerrors.Validation("google: api key is required", nil)
	}
	model := cfg.DefaultModel
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, kerrors.Unavailable("google: creating client", err)
	}
	return &GoogleClient{client: client, model: model}, nil
}

// Complete issues one non-streaming Models.GenerateContent call.
func (c *GoogleClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	contents := []*genai.Content{{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: req.UserMessage}},
	}}

	var config *genai.GenerateContentConfig
	if req.SystemPrompt != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}},
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return CompletionResponse{}, kerrors.Unavailable("google: generate content failed", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return CompletionResponse{}, kerrors.Unavailable("google: generate content returned no candidates", nil)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return CompletionResponse{Text: text.String()}, nil
}
