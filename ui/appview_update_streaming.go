package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"atui/config"
)

// handleStreamingMessage handles all streaming-related messages
func (a AppView) handleStreamingMessage(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case streamChunksCollectedMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("streamChunksCollectedMsg received - %d chunks collected", len(msg.Chunks))
		}

		if !a.dataModel.Streaming {
			return a, nil
		}

		// Keep system message - spinner stays animated until first real content arrives

		// Initialize typewriter effect
		a.chunks = msg.Chunks
		a.chunkIndex = 0
		a.currentResp.Reset()

		// Start displaying chunks after a brief delay so the spinner
		// stays visible for very fast replies
		return a, tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
			return displayChunkTickMsg{}
		})

	case displayChunkTickMsg:
		if !a.dataModel.Streaming {
			return a, nil
		}

		if a.chunkIndex >= len(a.chunks) {
			return a.finalizeReply()
		}

		// Display next chunk
		chunk := a.chunks[a.chunkIndex]
		a.chunkIndex++
		a.currentResp.WriteString(chunk)

		// Remove loading message AFTER first NON-EMPTY chunk is written
		if a.currentResp.String() != "" {
			if len(a.dataModel.Messages) > 0 && a.dataModel.Messages[len(a.dataModel.Messages)-1].Role == "system" {
				a.dataModel.Messages = a.dataModel.Messages[:len(a.dataModel.Messages)-1]
			}
		}

		// Only update streaming message if system message is already gone
		// (While system message exists, spinner animates via updateViewportContent in appview_update.go)
		if len(a.dataModel.Messages) == 0 || a.dataModel.Messages[len(a.dataModel.Messages)-1].Role != "system" {
			a.updateStreamingMessage()
		}

		// Schedule next chunk with delay (30ms, but first chunk is immediate)
		delay := 30 * time.Millisecond
		if a.chunkIndex == 1 {
			delay = time.Millisecond
		}

		return a, tea.Tick(delay, func(time.Time) tea.Msg {
			return displayChunkTickMsg{}
		})

	case streamErrorMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("streamErrorMsg received: %v", msg.Err)
		}

		a.dataModel.Streaming = false
		a.chunks = nil
		a.chunkIndex = 0
		a.currentResp.Reset()

		// Remove loading message
		if len(a.dataModel.Messages) > 0 && a.dataModel.Messages[len(a.dataModel.Messages)-1].Role == "system" {
			a.dataModel.Messages = a.dataModel.Messages[:len(a.dataModel.Messages)-1]
		}

		// The conversation already carries the fallback reply for this turn;
		// pull it into the display list
		a.dataModel.SyncFromHistory()
		renderCmd := a.renderSyncedTail()

		displayMsg := fmt.Sprintf("❌ Error: %v", msg.Err)

		// Wrap error message to fit viewport width
		maxWidth := a.width - 10
		if maxWidth > 0 {
			displayMsg = lipgloss.NewStyle().Width(maxWidth).Render(displayMsg)
		}

		a.dataModel.Messages = append(a.dataModel.Messages, Message{
			Role:      "system",
			Content:   displayMsg,
			Rendered:  displayMsg,
			Timestamp: time.Now(),
		})
		a.updateViewportContent(true)
		return a, renderCmd
	}

	return a, nil
}

// renderSyncedTail schedules markdown rendering for the newest assistant
// message pulled in from the conversation, which has no rendered cache yet
func (a *AppView) renderSyncedTail() tea.Cmd {
	n := len(a.dataModel.Messages)
	if n == 0 {
		return nil
	}
	last := a.dataModel.Messages[n-1]
	if last.Role != "assistant" || last.Rendered != "" {
		return nil
	}
	return a.renderMarkdownAsync(n-1, last.Content)
}

// finalizeReply ends the typewriter and commits the assistant message to the
// display list
func (a AppView) finalizeReply() (tea.Model, tea.Cmd) {
	fullResp := a.currentResp.String()
	a.dataModel.Streaming = false
	a.chunks = nil
	a.chunkIndex = 0
	a.currentResp.Reset()

	if config.DebugLog != nil {
		config.DebugLog.Printf("Typewriter complete - finalizing message (%d chars)", len(fullResp))
	}

	// Drop the loading message if it is still showing (empty reply case)
	if len(a.dataModel.Messages) > 0 && a.dataModel.Messages[len(a.dataModel.Messages)-1].Role == "system" {
		a.dataModel.Messages = a.dataModel.Messages[:len(a.dataModel.Messages)-1]
	}

	if fullResp == "" {
		// Conversation history is authoritative for whatever the agent returned
		a.dataModel.SyncFromHistory()
		renderCmd := a.renderSyncedTail()
		a.updateViewportContent(true)
		return a, renderCmd
	}

	a.dataModel.Messages = append(a.dataModel.Messages, Message{
		Role:      "assistant",
		Content:   fullResp,
		Rendered:  fullResp, // Start with plain text
		Timestamp: time.Now(),
	})

	messageIndex := len(a.dataModel.Messages) - 1
	a.updateViewportContent(true)

	return a, a.renderMarkdownAsync(messageIndex, fullResp)
}

// flushTypewriter skips the remaining typewriter animation and finalizes the
// reply immediately
func (a AppView) flushTypewriter() (tea.Model, tea.Cmd) {
	for a.chunkIndex < len(a.chunks) {
		a.currentResp.WriteString(a.chunks[a.chunkIndex])
		a.chunkIndex++
	}
	return a.finalizeReply()
}
