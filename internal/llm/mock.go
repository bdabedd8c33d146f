package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one canned answer of a MockProvider
type MockResponse struct {
	Content json.RawMessage
	Err     error
}

// MockProvider replays canned answers in order and records requests.
// An exhausted queue yields ErrProviderUnavailable.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.responses) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	if err := validateResponse(req.Schema, next.Content); err != nil {
		return nil, err
	}
	return &Response{Content: next.Content, Model: "mock", StopReason: StopEnd}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// Calls returns the recorded requests
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
