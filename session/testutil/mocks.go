// Package testutil provides a scripted mock agent for controller tests.
package testutil

import (
	"context"
	"time"

	"atui/api"
)

// MockAgent implements session.Agent with configurable behavior per call.
type MockAgent struct {
	HealthFunc     func(ctx context.Context) (*api.HealthResponse, error)
	ChatFunc       func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	ChatStreamFunc func(ctx context.Context, req api.ChatRequest, idleTimeout time.Duration, callback api.StreamCallback) error
	RetrieveFunc   func(ctx context.Context, req api.RetrieveRequest) (*api.RetrieveResponse, error)

	// Call counters for assertions
	HealthCalls     int
	ChatCalls       int
	ChatStreamCalls int
	RetrieveCalls   int

	// Last request seen by Chat / ChatStream
	LastRequest *api.ChatRequest
}

// NewMockAgent returns a mock that reports a healthy backend and streams a
// single "Mock response" frame followed by a done marker.
func NewMockAgent() *MockAgent {
	m := &MockAgent{}
	m.HealthFunc = func(ctx context.Context) (*api.HealthResponse, error) {
		return HealthyResponse(), nil
	}
	m.ChatFunc = func(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
		return &api.ChatResponse{
			Message:   "Mock response",
			Role:      "assistant",
			Timestamp: time.Now(),
			ModelID:   "mock-model",
		}, nil
	}
	m.ChatStreamFunc = func(ctx context.Context, req api.ChatRequest, idleTimeout time.Duration, callback api.StreamCallback) error {
		if err := callback(api.StreamChunk{Content: "Mock response"}); err != nil {
			return err
		}
		return callback(api.StreamChunk{Done: true})
	}
	m.RetrieveFunc = func(ctx context.Context, req api.RetrieveRequest) (*api.RetrieveResponse, error) {
		return &api.RetrieveResponse{Query: req.Query, Timestamp: time.Now()}, nil
	}
	return m
}

// ScriptStream replaces the stream behavior with a fixed sequence of chunks,
// optionally followed by failErr instead of a clean end.
func (m *MockAgent) ScriptStream(chunks []api.StreamChunk, failErr error) {
	m.ChatStreamFunc = func(ctx context.Context, req api.ChatRequest, idleTimeout time.Duration, callback api.StreamCallback) error {
		for _, chunk := range chunks {
			if err := callback(chunk); err != nil {
				return err
			}
			if chunk.Done {
				return nil
			}
		}
		return failErr
	}
}

func (m *MockAgent) Health(ctx context.Context) (*api.HealthResponse, error) {
	m.HealthCalls++
	return m.HealthFunc(ctx)
}

func (m *MockAgent) Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	m.ChatCalls++
	m.LastRequest = &req
	return m.ChatFunc(ctx, req)
}

func (m *MockAgent) ChatStream(ctx context.Context, req api.ChatRequest, idleTimeout time.Duration, callback api.StreamCallback) error {
	m.ChatStreamCalls++
	m.LastRequest = &req
	return m.ChatStreamFunc(ctx, req, idleTimeout, callback)
}

func (m *MockAgent) Retrieve(ctx context.Context, req api.RetrieveRequest) (*api.RetrieveResponse, error) {
	m.RetrieveCalls++
	return m.RetrieveFunc(ctx, req)
}

// HealthyResponse is the canonical "sendable" health payload.
func HealthyResponse() *api.HealthResponse {
	return &api.HealthResponse{
		Status:            "healthy",
		AppName:           "Test Agent",
		Timestamp:         time.Now(),
		BedrockConfigured: true,
	}
}

// DegradedResponse reports a reachable backend without Bedrock credentials.
func DegradedResponse() *api.HealthResponse {
	return &api.HealthResponse{
		Status:            "degraded",
		AppName:           "Test Agent",
		Timestamp:         time.Now(),
		BedrockConfigured: false,
	}
}
