package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockClient replays scripted completions in order. Test helper.
type MockClient struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Calls     []CompletionRequest
}

// NewMockClient returns a client that replays the given completions.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{Responses: responses}
}

func (m *MockClient) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Calls) > len(m.Responses) {
		return nil, fmt.Errorf("mock client: no response scripted for call %d", len(m.Calls))
	}
	return &CompletionResponse{Content: m.Responses[len(m.Calls)-1]}, nil
}

// CallCount returns how many completions were requested.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
