package providers

import "context"

// MockClient is a deterministic, network-free Client used in tests and
// local development (ai_provider = "mock"). It echoes a canned reply or, if
// Responses is set, pops replies off the front of that slice in order.
type MockClient struct {
	Responses []string
	Calls     []CompletionRequest
}

// Complete records the request and returns the next canned response (or a
// generic acknowledgement if Responses is exhausted).
func (m *MockClient) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	m.Calls = append(m.Calls, req)
	if len(m.Responses) == 0 {
		return CompletionResponse{Text: "Understood."}, nil
	}
	next := m.Responses[0]
	m.Responses = m.Responses[1:]
	return CompletionResponse{Text: next}, nil
}
