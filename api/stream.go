package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTimeout bounds the gap between two SSE frames. The backend has
// no keepalive, so a dead Lambda shows up as silence rather than a closed
// connection; without this the client would hang forever.
const DefaultIdleTimeout = 90 * time.Second

// ChatStream opens POST /api/chat/stream and feeds each parsed frame to
// callback in arrival order until a done marker or end-of-stream.
//
// Frame handling rules:
//   - only "data:" lines matter; the payload is a JSON StreamChunk
//   - a payload that fails to parse is logged, counted, and skipped
//   - an "event: error" frame carries an ErrorResponse and fails the stream
//   - a frame with done=true ends the stream successfully
//
// idleTimeout <= 0 selects DefaultIdleTimeout. Each arriving line resets the
// watchdog; expiry cancels the request and is reported as an error.
func (c *Client) ChatStream(ctx context.Context, chatReq ChatRequest, idleTimeout time.Duration, callback StreamCallback) error {
	ctx, span := c.tracer.Start(ctx, "agent_chat_stream")
	defer span.End()

	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/stream", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer resp.Body.Close()
	defer func() {
		c.requestDuration.Record(ctx, float64(time.Since(start).Milliseconds()))
	}()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}

	c.logger.Info("chat stream opened", "request_id", requestID)

	var stalled atomic.Bool
	watchdog := time.AfterFunc(idleTimeout, func() {
		stalled.Store(true)
		cancel()
	})
	defer watchdog.Stop()

	var frames int
	eventName := "message"

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		watchdog.Reset(idleTimeout)
		line := scanner.Text()

		switch {
		case line == "":
			// Blank line terminates an event; the next one starts fresh.
			eventName = "message"

		case strings.HasPrefix(line, ":"):
			// SSE comment / keepalive.

		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))

		case strings.HasPrefix(line, "data:"):
			payload := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")

			if eventName == "error" {
				var errResp ErrorResponse
				if json.Unmarshal([]byte(payload), &errResp) == nil && errResp.Error != "" {
					return fmt.Errorf("stream error from backend: %s", errResp.Error)
				}
				return fmt.Errorf("stream error from backend: %s", payload)
			}

			var chunk StreamChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				c.framesMalformed.Add(ctx, 1)
				c.logger.Warn("skipping malformed stream frame",
					"request_id", requestID, "error", err, "payload", payload)
				continue
			}

			frames++
			c.framesTotal.Add(ctx, 1)

			if err := callback(chunk); err != nil {
				return err
			}
			if chunk.Done {
				c.logger.Info("chat stream complete",
					"request_id", requestID, "frames", frames, "duration", time.Since(start))
				return nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		if stalled.Load() {
			return fmt.Errorf("stream stalled: no data for %s", idleTimeout)
		}
		return fmt.Errorf("stream read failed: %w", err)
	}

	// EOF without a done marker still commits whatever arrived; the server
	// closing cleanly is treated as completion.
	c.logger.Info("chat stream ended without done marker",
		"request_id", requestID, "frames", frames, "duration", time.Since(start))
	return nil
}
