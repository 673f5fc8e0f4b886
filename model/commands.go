package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"atui/api"
	"atui/config"
	"atui/session"
)

// HealthCheckInterval is how often the backend is re-probed in the background.
const HealthCheckInterval = 30 * time.Second

// SendToAgent sends a user message through the controller and collects the
// streamed response. Chunks are gathered here and replayed by the UI's
// typewriter, so a burst of tiny fragments still displays smoothly.
func (m *Model) SendToAgent(text string) tea.Cmd {
	ctrl := m.Ctrl

	return func() tea.Msg {
		if config.DebugLog != nil {
			config.DebugLog.Printf("sendToAgent goroutine started")
		}

		var chunks []string
		startTime := time.Now()

		reply, err := ctrl.SendMessage(context.Background(), text, func(fragment string) {
			chunks = append(chunks, fragment)
		})

		elapsed := time.Since(startTime)

		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("agent error after %v: %v", elapsed, err)
			}
			return StreamErrorMsg{Err: err, Fallback: reply.Content}
		}

		if config.DebugLog != nil {
			config.DebugLog.Printf("agent response received after %v - %d chunks, %d chars",
				elapsed, len(chunks), len(reply.Content))
		}

		return StreamChunksCollectedMsg{
			Chunks:       chunks,
			FullResponse: reply.Content,
		}
	}
}

// CheckHealth probes the backend once and reports the result
func (m *Model) CheckHealth() tea.Cmd {
	ctrl := m.Ctrl
	return func() tea.Msg {
		healthy := ctrl.CheckHealth(context.Background())
		return HealthCheckedMsg{
			Healthy: healthy,
			AppName: ctrl.AppName(),
		}
	}
}

// ScheduleHealthTick requests the next periodic health probe
func ScheduleHealthTick() tea.Cmd {
	return tea.Tick(HealthCheckInterval, func(time.Time) tea.Msg {
		return HealthTickMsg{}
	})
}

// RetrieveKnowledge queries the knowledge base without generating a reply
func (m *Model) RetrieveKnowledge(query string) tea.Cmd {
	ctrl := m.Ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := ctrl.Retrieve(ctx, query)
		if err != nil {
			return RetrieveResultMsg{Query: query, Err: err}
		}
		return RetrieveResultMsg{Query: query, Results: resp.Results}
	}
}

// Search finds messages in the conversation matching the query
func (m *Model) Search(query string) []session.MessageMatch {
	return m.Ctrl.Search(query)
}

// LastAssistantMessage returns the most recent assistant reply, if any
func (m *Model) LastAssistantMessage() (Message, bool) {
	for i := len(m.Messages) - 1; i >= 0; i-- {
		if m.Messages[i].Role == "assistant" {
			return m.Messages[i], true
		}
	}
	return Message{}, false
}

// HistorySnapshot returns the committed conversation for export or yank
func (m *Model) HistorySnapshot() []api.Message {
	return m.Ctrl.History()
}
