package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, Options{})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClientValidatesURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "http", baseURL: "http://localhost:8000", wantErr: false},
		{name: "https", baseURL: "https://agent.example.com", wantErr: false},
		{name: "empty uses default", baseURL: "", wantErr: false},
		{name: "missing scheme", baseURL: "localhost:8000", wantErr: true},
		{name: "file scheme", baseURL: "file:///etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL, Options{})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient(%q) error = %v, wantErr %v", tt.baseURL, err, tt.wantErr)
			}
		})
	}
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	c := newTestClient(t, "")
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("got %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c := newTestClient(t, "http://localhost:8000/")
	if c.BaseURL() != "http://localhost:8000" {
		t.Errorf("got %q, want trailing slash removed", c.BaseURL())
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		body   HealthResponse
		wantOK bool
	}{
		{
			name:   "healthy and configured",
			body:   HealthResponse{Status: "healthy", AppName: "Agent", BedrockConfigured: true},
			wantOK: true,
		},
		{
			name:   "degraded without credentials",
			body:   HealthResponse{Status: "degraded", AppName: "Agent", BedrockConfigured: false},
			wantOK: false,
		},
		{
			name:   "healthy status but unconfigured",
			body:   HealthResponse{Status: "healthy", BedrockConfigured: false},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/health" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			health, err := c.Health(context.Background())
			if err != nil {
				t.Fatalf("Health failed: %v", err)
			}
			if health.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v", health.OK(), tt.wantOK)
			}
		})
	}
}

func TestHealthServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Health(context.Background()); err == nil {
		t.Error("expected an error for a 500 response")
	}
}

func TestHealthUnreachable(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	if _, err := c.Health(context.Background()); err == nil {
		t.Error("expected an error for an unreachable backend")
	}
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Message != "hello" {
			t.Errorf("message: got %q, want %q", req.Message, "hello")
		}
		if len(req.ConversationHistory) != 2 {
			t.Errorf("history: got %d messages, want 2", len(req.ConversationHistory))
		}
		if !req.UseKnowledgeBase {
			t.Error("use_knowledge_base should be set")
		}

		json.NewEncoder(w).Encode(ChatResponse{
			Message:   "hi back",
			Role:      "assistant",
			Timestamp: time.Now(),
			ModelID:   "anthropic.claude-3",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.Chat(context.Background(), ChatRequest{
		Message: "hello",
		ConversationHistory: []Message{
			{Role: "user", Content: "earlier"},
			{Role: "assistant", Content: "reply"},
		},
		UseKnowledgeBase: true,
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Message != "hi back" {
		t.Errorf("got %q, want %q", resp.Message, "hi back")
	}
}

func TestChatStructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error:  "bedrock_unavailable",
			Detail: "model invocation failed",
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "hello"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "bedrock_unavailable") {
		t.Errorf("error should carry the backend detail, got %q", err)
	}
	if !strings.Contains(err.Error(), "model invocation failed") {
		t.Errorf("error should carry the backend detail, got %q", err)
	}
}

func TestChatPlainStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not json", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "hello"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("error should carry the status, got %q", err)
	}
}

func TestRetrieve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/knowledge/retrieve" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req RetrieveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.MaxResults != 5 {
			t.Errorf("max_results: got %d, want default 5", req.MaxResults)
		}

		json.NewEncoder(w).Encode(RetrieveResponse{
			Results: []KnowledgeBaseResult{
				{Content: "first passage", Score: 0.92},
				{Content: "second passage", Score: 0.71},
			},
			Query: req.Query,
			Count: 2,
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	resp, err := c.Retrieve(context.Background(), RetrieveRequest{Query: "deployment"})
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if resp.Count != 2 || len(resp.Results) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Results[0].Score != 0.92 {
		t.Errorf("score: got %v, want 0.92", resp.Results[0].Score)
	}
}
