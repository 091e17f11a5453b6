package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/atendeplus/roteiro/core"
)

// Shape constrains a call to emit a JSON object matching a schema. The name
// doubles as the tool/response-format label on providers that require one.
type Shape struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"` // JSON Schema
}

// Request captures the normalized input for one model invocation.
type Request struct {
	Model        string `json:"model"`        // provider-specific model identifier
	Instructions string `json:"instructions"` // system prompt
	Input        string `json:"input"`        // user message
	Shape        *Shape `json:"shape,omitempty"`
}

// Response carries the raw model text and its token accounting. Text holds
// serialized JSON when the request carried a Shape.
type Response struct {
	Text  string      `json:"text"`
	Usage *core.Usage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required to drive generation.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Canned completions are keyed by the request's model identifier, so one
// mock can stand in for a whole fleet of role-specific models.
type MockModel struct {
	info      Info
	mu        sync.Mutex
	responses map[string]string
	usage     core.Usage
	err       error
}

// NewMockModel constructs a MockModel with a fixed per-call usage count.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
		usage:     core.Usage{Input: 10, Output: 5, Total: 15},
	}
}

// AddResponse registers a deterministic canned completion for a model id.
func (m *MockModel) AddResponse(modelID, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[modelID] = response
}

// SetUsage overrides the usage reported on every subsequent call.
func (m *MockModel) SetUsage(usage core.Usage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage = usage
}

// SetError makes every subsequent call fail with err. Pass nil to recover.
func (m *MockModel) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	text, ok := m.responses[req.Model]
	if !ok {
		text = fmt.Sprintf("Mock response to: %s", req.Input)
	}
	usage := m.usage
	return &Response{Text: text, Usage: &usage}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
