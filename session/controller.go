// Package session owns the chat conversation state and mediates all network
// interaction with the agent backend. It is deliberately UI-agnostic: the
// terminal layer invokes SendMessage / ClearHistory / CheckHealth and renders
// whatever state comes back, so the controller could sit behind any front end.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"atui/api"
)

// Precondition violations. These never reach the network layer; callers
// surface them as transient notices.
var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a response is already streaming")
	ErrUnhealthy    = errors.New("agent backend is not available")
)

// Agent is the backend surface the controller needs. *api.Client satisfies
// it; tests substitute a scripted mock.
type Agent interface {
	Health(ctx context.Context) (*api.HealthResponse, error)
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	ChatStream(ctx context.Context, req api.ChatRequest, idleTimeout time.Duration, callback api.StreamCallback) error
	Retrieve(ctx context.Context, req api.RetrieveRequest) (*api.RetrieveResponse, error)
}

// Config carries the per-conversation request parameters.
type Config struct {
	SystemPrompt     string
	UseKnowledgeBase bool
	KnowledgeBaseID  string
	Streaming        bool          // false selects the non-streaming /api/chat endpoint
	MaxHistory       int           // messages sent per request; local history is never trimmed
	IdleTimeout      time.Duration // per-fragment stall limit for streaming requests
}

// Reply is the outcome of one SendMessage call.
type Reply struct {
	Content     string
	Interrupted bool // a transport error cut the stream short
	StartedAt   time.Time
}

// Controller holds the single conversation of this process.
//
// bubbletea runs commands in goroutines, so state is mutex-guarded even
// though the UI itself is single-threaded. The streaming flag doubles as the
// in-flight request guard: a second send is rejected, never queued.
type Controller struct {
	agent  Agent
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	history   []api.Message
	streaming bool
	healthy   bool
	health    *api.HealthResponse // last good payload, for the status bar
}

func NewController(agent Agent, cfg Config, logger *slog.Logger) *Controller {
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 50
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		agent:  agent,
		cfg:    cfg,
		logger: logger,
	}
}

// CheckHealth probes the backend and updates the health gate. It never
// returns an error: any transport failure or malformed response simply
// leaves the controller unhealthy, and the UI reflects that.
func (c *Controller) CheckHealth(ctx context.Context) bool {
	health, err := c.agent.Health(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.healthy = false
		c.logger.Warn("health check failed", "error", err)
		return false
	}

	c.healthy = health.OK()
	c.health = health
	return c.healthy
}

// Healthy reports whether sends are currently permitted.
func (c *Controller) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthy
}

// Streaming reports whether a request is in flight.
func (c *Controller) Streaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// AppName returns the backend's advertised name, if a health check has seen one.
func (c *Controller) AppName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.health == nil {
		return ""
	}
	return c.health.AppName
}

// History returns a copy of the conversation.
func (c *Controller) History() []api.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Message, len(c.history))
	copy(out, c.history)
	return out
}

// ClearHistory empties the conversation. Confirmation is the caller's job.
// The health gate is unaffected.
func (c *Controller) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}

// SendMessage runs one full request cycle: precondition checks, user message
// append, request, stream consumption, assistant message commit.
//
// onFragment is invoked once per arriving text fragment, in order, and may be
// nil. The committed assistant message carries the timestamp captured when
// the request started, and exactly one message is committed per call —
// a normal reply on success, a fallback (with any partial content preserved)
// on transport failure. Either way the controller is Idle again on return.
func (c *Controller) SendMessage(ctx context.Context, text string, onFragment func(fragment string)) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.streaming {
		c.mu.Unlock()
		return Reply{}, ErrBusy
	}
	if !c.healthy {
		c.mu.Unlock()
		return Reply{}, ErrUnhealthy
	}

	started := time.Now()
	req := api.ChatRequest{
		Message:             text,
		ConversationHistory: c.requestHistoryLocked(),
		SystemPrompt:        c.cfg.SystemPrompt,
		UseKnowledgeBase:    c.cfg.UseKnowledgeBase,
		KnowledgeBaseID:     c.cfg.KnowledgeBaseID,
	}
	c.history = append(c.history, api.Message{
		Role:      "user",
		Content:   text,
		Timestamp: started,
	})
	c.streaming = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.streaming = false
		c.mu.Unlock()
	}()

	var accumulated strings.Builder
	var err error

	if c.cfg.Streaming {
		err = c.agent.ChatStream(ctx, req, c.cfg.IdleTimeout, func(chunk api.StreamChunk) error {
			if chunk.Content != "" {
				accumulated.WriteString(chunk.Content)
				if onFragment != nil {
					onFragment(chunk.Content)
				}
			}
			return nil
		})
	} else {
		var resp *api.ChatResponse
		resp, err = c.agent.Chat(ctx, req)
		if err == nil {
			accumulated.WriteString(resp.Message)
			if onFragment != nil {
				onFragment(resp.Message)
			}
		}
	}

	if err != nil {
		content := fallbackContent(accumulated.String())
		c.commit(content, started)
		c.logger.Error("chat request failed", "error", err, "partial_chars", accumulated.Len())
		return Reply{Content: content, Interrupted: true, StartedAt: started},
			fmt.Errorf("chat request failed: %w", err)
	}

	content := accumulated.String()
	c.commit(content, started)
	return Reply{Content: content, StartedAt: started}, nil
}

// Retrieve queries the backend knowledge base. Gated on health like sends,
// but it never touches the conversation history.
func (c *Controller) Retrieve(ctx context.Context, query string) (*api.RetrieveResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyMessage
	}
	if !c.Healthy() {
		return nil, ErrUnhealthy
	}

	return c.agent.Retrieve(ctx, api.RetrieveRequest{
		Query:           query,
		KnowledgeBaseID: c.cfg.KnowledgeBaseID,
	})
}

// requestHistoryLocked returns the history to send with a request: the last
// MaxHistory messages, excluding the message being sent (the backend appends
// the current message itself). Caller holds c.mu.
func (c *Controller) requestHistoryLocked() []api.Message {
	history := c.history
	if len(history) > c.cfg.MaxHistory {
		history = history[len(history)-c.cfg.MaxHistory:]
	}
	out := make([]api.Message, len(history))
	copy(out, history)
	return out
}

func (c *Controller) commit(content string, startedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, api.Message{
		Role:      "assistant",
		Content:   content,
		Timestamp: startedAt,
	})
}

func fallbackContent(partial string) string {
	if partial == "" {
		return "⚠ The agent could not be reached. Please try again."
	}
	return partial + "\n\n⚠ The response was interrupted by a connection error."
}
