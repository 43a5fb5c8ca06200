// Package providers abstracts the LLM backend an agent is bound to,
// selected at startup via the ai_provider configuration key (spec.md §6:
// ai_provider ∈ {ollama, openai, google, mock}). Concrete adapters speak
// Ollama's native /api/chat HTTP API, github.com/sashabaranov/go-openai, and
// google.golang.org/genai; a mock implementation backs tests and local
// development without network calls.
package providers

import "context"

// ToolSpec is the provider-agnostic shape of a tool an LLM may call,
// projected from a tools.Descriptor.
type ToolSpec struct {
	Name        string
	Description string
	Schema      []byte // JSON Schema, nil if the tool takes no structured args
}

// CompletionRequest is one turn of agent conversation.
type CompletionRequest struct {
	SystemPrompt string
	UserMessage  string
	Tools        []ToolSpec
}

// CompletionResponse is the LLM's reply text. Each adapter in this package
// makes a single completion call and returns the reply's text; none of them
// executes a tool call the model requests or loops for a further turn.
type CompletionResponse struct {
	Text string
}

// Client is the minimal contract agents.Agent depends on. Every concrete
// provider satisfies this so agents never import a provider SDK directly.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

// Name identifies a configured provider selection (ai_provider config key).
type Name string

const (
	NameOllama Name = "ollama"
	NameOpenAI Name = "openai"
	NameGoogle Name = "google"
	NameMock   Name = "mock"
)
