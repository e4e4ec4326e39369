package backend

import (
	"context"
	"fmt"

	"github.com/clientforge/ai-router/internal/models"
)

// MockBackend returns deterministic responses for local runs and tests.
type MockBackend struct {
	BackendName string
	Responses   map[string]string
	Err         error

	// Calls records every (model, prompt) pair in invocation order.
	Calls []MockCall
}

// MockCall is one recorded Complete invocation.
type MockCall struct {
	Model  string
	Prompt string
}

// NewMockBackend creates a mock backend named name.
func NewMockBackend(name string) *MockBackend {
	return &MockBackend{
		BackendName: name,
		Responses:   make(map[string]string),
	}
}

// Name implements Invoker.
func (b *MockBackend) Name() string { return b.BackendName }

// Complete implements Invoker with canned responses keyed by prompt.
func (b *MockBackend) Complete(_ context.Context, model, prompt string) (string, error) {
	b.Calls = append(b.Calls, MockCall{Model: model, Prompt: prompt})
	if b.Err != nil {
		return "", &models.CompletionError{Model: model, Mode: models.ModeLocal, Err: b.Err}
	}
	if resp, ok := b.Responses[prompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("mock response from %s:\n%s", model, prompt), nil
}
