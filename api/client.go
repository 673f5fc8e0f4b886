// Package api implements the HTTP client for the Summoners Reunion AI Agent
// backend: a health probe, streaming and non-streaming chat, and knowledge
// base retrieval. The streaming endpoint speaks SSE; see stream.go for the
// frame consumption rules.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const DefaultBaseURL = "http://localhost:8000"

// StreamCallback is called once per content-bearing SSE frame, in arrival
// order. Returning an error aborts the stream.
type StreamCallback func(chunk StreamChunk) error

// Client talks to one agent backend instance.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// streamClient has no overall timeout: a chat stream legitimately runs
	// for minutes. Stalls are handled by the caller's idle timeout instead.
	streamClient *http.Client

	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter

	requestDuration metric.Float64Histogram
	framesTotal     metric.Int64Counter
	framesMalformed metric.Int64Counter
	healthResults   metric.Int64Counter
}

// Options configures optional client dependencies. Zero values are usable:
// logging is discarded and telemetry becomes a no-op.
type Options struct {
	Logger *slog.Logger
	Tracer trace.Tracer
	Meter  metric.Meter
}

func NewClient(baseURL string, opts Options) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid agent URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid agent URL %q: unsupported scheme", baseURL)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Tracer == nil {
		opts.Tracer = nooptrace.NewTracerProvider().Tracer("atui")
	}
	if opts.Meter == nil {
		opts.Meter = noopmetric.NewMeterProvider().Meter("atui")
	}

	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		streamClient: &http.Client{},
		logger:       opts.Logger,
		tracer:       opts.Tracer,
		meter:        opts.Meter,
	}

	c.requestDuration, err = c.meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Agent API request duration in milliseconds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	c.framesTotal, err = c.meter.Int64Counter(
		"agent.stream.frames",
		metric.WithDescription("SSE frames received from the chat stream"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame counter: %w", err)
	}
	c.framesMalformed, err = c.meter.Int64Counter(
		"agent.stream.frames_malformed",
		metric.WithDescription("SSE frames skipped because their payload did not parse"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create malformed-frame counter: %w", err)
	}
	c.healthResults, err = c.meter.Int64Counter(
		"agent.health.checks",
		metric.WithDescription("Health probes issued against the agent backend"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health counter: %w", err)
	}

	return c, nil
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health probes GET /api/health. A short timeout keeps the periodic probe
// from piling up behind an unreachable backend.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "agent_health_check")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		c.healthResults.Add(ctx, 1)
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	c.healthResults.Add(ctx, 1)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check failed: %s", resp.Status)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}

	return &health, nil
}

// Ping reports reachability only. Used by startup code that needs a yes/no
// answer without caring about the health payload.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}

// Chat sends a non-streaming chat request and returns the complete reply.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (*ChatResponse, error) {
	ctx, span := c.tracer.Start(ctx, "agent_chat")
	defer span.End()

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	c.logger.Info("chat response received",
		"request_id", requestID,
		"model_id", chatResp.ModelID,
		"chars", len(chatResp.Message),
		"duration", time.Since(start))

	return &chatResp, nil
}

// Retrieve performs a semantic search against the backend's knowledge base.
func (c *Client) Retrieve(ctx context.Context, retReq RetrieveRequest) (*RetrieveResponse, error) {
	ctx, span := c.tracer.Start(ctx, "agent_knowledge_retrieve")
	defer span.End()

	if retReq.MaxResults <= 0 {
		retReq.MaxResults = 5
	}

	body, err := json.Marshal(retReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/knowledge/retrieve", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var retResp RetrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&retResp); err != nil {
		return nil, fmt.Errorf("failed to decode retrieve response: %w", err)
	}

	return &retResp, nil
}

// statusError turns a non-2xx response into an error, preferring the
// backend's structured detail when the body carries one.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var errResp ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		if errResp.Detail != "" {
			return fmt.Errorf("API error: %s: %s", errResp.Error, errResp.Detail)
		}
		return fmt.Errorf("API error: %s", errResp.Error)
	}

	return fmt.Errorf("API error: %s", resp.Status)
}
