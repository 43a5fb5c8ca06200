package providers

import (
	"context"
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kickai/kickai/internal/kerrors"
)

// OpenAIConfig configures an OpenAIClient.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}

// OpenAIClient adapts go-openai's chat completion API to providers.Client.
// Grounded on the teacher's OpenAIProvider, trimmed to a single
// non-streaming call since this core dispatches tool execution through the
// tool registry rather than an LLM-driven tool loop.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient validates config and builds a ready-to-use client.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, kerrors.Validation("openai: api key is required", nil)
	}
	model := cfg.DefaultModel
	if model == "" {
		model = "gpt-4o"
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

// Complete issues one non-streaming chat completion call.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	messages := []openai.ChatCompletionMessage{}
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserMessage,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if len(req.Tools) > 0 {
		chatReq.Tools = openAITools(req.Tools)
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return CompletionResponse{}, kerrors.Unavailable("openai: completion request failed", err)
	}
	if len(resp.Choices) == 0 {
		return CompletionResponse{}, kerrors.Unavailable("openai: completion returned no choices", nil)
	}
	return CompletionResponse{Text: resp.Choices[0].Message.Content}, nil
}

func openAITools(specs []ToolSpec) []openai.Tool {
	out := make([]openai.Tool, 0, len(specs))
	for _, spec := range specs {
		var params any
		if len(spec.Schema) > 0 {
			_ = json.Unmarshal(spec.Schema, &params)
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  params,
			},
		})
	}
	return out
}
