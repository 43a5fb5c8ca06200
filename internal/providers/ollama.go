package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kickai/kickai/internal/kerrors"
)

const (
	ollamaDefaultBaseURL = "http://localhost:11434"
	ollamaDefaultModel   = "llama3.2"
	ollamaRequestTimeout = 60 * time.Second
)

// OllamaConfig configures an OllamaClient.
type OllamaConfig struct {
	BaseURL      string
	DefaultModel string
}

// OllamaClient adapts Ollama's native /api/chat HTTP API to providers.Client.
// Grounded on the pack's pkg/model/ollama.Client, trimmed to the
// non-streaming single-turn request/response shape providers.Client needs —
// no streaming, no thinking-block or image handling, since this core never
// asks for any of those.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewOllamaClient builds a ready-to-use client. Unlike the other providers,
// no API key is required — Ollama is expected to run locally or behind a
// network the operator already trusts.
func NewOllamaClient(cfg OllamaConfig) (*OllamaClient, error) {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = ollamaDefaultBaseURL
	}
	model := cfg.DefaultModel
	if model == "" {
		model = ollamaDefaultModel
	}
	return &OllamaClient{
		httpClient: &http.Client{Timeout: ollamaRequestTimeout},
		baseURL:    baseURL,
		model:      model,
	}, nil
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

// Complete issues one non-streaming call to POST /api/chat.
func (c *OllamaClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	var messages []ollamaChatMessage
	if req.SystemPrompt != "" {
		messages = append(messages, ollamaChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, ollamaChatMessage{Role: "user", Content: req.UserMessage})

	body, err := json.Marshal(ollamaChatRequest{Model: c.model, Messages: messages, Stream: false})
	if err != nil {
		return CompletionResponse{}, kerrors.Programming("ollama: marshaling chat request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return CompletionResponse{}, kerrors.Programming("ollama: building chat request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return CompletionResponse{}, kerrors.Unavailable("ollama: chat request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return CompletionResponse{}, kerrors.Unavailable(fmt.Sprintf("ollama: unexpected status %d: %s", resp.StatusCode, respBody), nil)
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return CompletionResponse{}, kerrors.Unavailable("ollama: decoding chat response", err)
	}
	return CompletionResponse{Text: chatResp.Message.Content}, nil
}
