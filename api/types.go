package api

import "time"

// Message is a single chat message as the agent backend understands it.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// ChatRequest is the request body for both /api/chat and /api/chat/stream.
type ChatRequest struct {
	Message             string    `json:"message"`
	ConversationHistory []Message `json:"conversation_history"`
	SystemPrompt        string    `json:"system_prompt,omitempty"`
	UseKnowledgeBase    bool      `json:"use_knowledge_base"`
	KnowledgeBaseID     string    `json:"knowledge_base_id,omitempty"`
}

// ChatResponse is the non-streaming chat response.
type ChatResponse struct {
	Message   string    `json:"message"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	ModelID   string    `json:"model_id"`
}

// StreamChunk is the payload of one SSE data frame on /api/chat/stream.
// Content carries an incremental text fragment; Done marks the final frame.
type StreamChunk struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status            string    `json:"status"`
	AppName           string    `json:"app_name"`
	Timestamp         time.Time `json:"timestamp"`
	BedrockConfigured bool      `json:"bedrock_configured"`
}

// OK reports whether the backend considers itself usable. The status string
// alone is not enough: a server without Bedrock credentials answers "degraded"
// with bedrock_configured=false, and sends must stay gated until both hold.
func (h *HealthResponse) OK() bool {
	return h.Status == "healthy" && h.BedrockConfigured
}

// ErrorResponse is the payload of an SSE "error" event and of non-2xx bodies.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// RetrieveRequest is the request body for /api/knowledge/retrieve.
type RetrieveRequest struct {
	Query           string `json:"query"`
	KnowledgeBaseID string `json:"knowledge_base_id,omitempty"`
	MaxResults      int    `json:"max_results"`
}

// KnowledgeBaseResult is one semantic-search hit from the knowledge base.
type KnowledgeBaseResult struct {
	Content  string         `json:"content"`
	Score    float64        `json:"score"`
	Location map[string]any `json:"location"`
	Metadata map[string]any `json:"metadata"`
}

// RetrieveResponse is the body of a successful retrieval call.
type RetrieveResponse struct {
	Results   []KnowledgeBaseResult `json:"results"`
	Query     string                `json:"query"`
	Count     int                   `json:"count"`
	Timestamp time.Time             `json:"timestamp"`
}
