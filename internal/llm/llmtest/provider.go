// Package llmtest provides an in-memory llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/ppiankov/vouch/internal/llm"
)

// MockProvider answers Complete with a fixed text or error, or with
// Respond when it is set. It is safe for concurrent use.
type MockProvider struct {
	ProviderName string
	Text         string
	Err          error
	Respond      func(req llm.CompletionRequest) (string, error)
	PingErr      error

	mu       sync.Mutex
	requests []llm.CompletionRequest
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// Complete records the request and returns the canned answer
func (m *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	text, err := m.Text, m.Err
	if m.Respond != nil {
		text, err = m.Respond(req)
	}
	if err != nil {
		return nil, err
	}
	return &llm.CompletionResponse{Text: text, Model: "mock-model"}, nil
}

// Ping returns PingErr
func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingErr
}

// Requests returns a copy of every request received so far
func (m *MockProvider) Requests() []llm.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
