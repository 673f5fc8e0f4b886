package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"atui/config"
	appmodel "atui/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Update spinner FIRST to handle TickMsg before anything else
	if a.dataModel.Streaming && len(a.dataModel.Messages) > 0 && a.dataModel.Messages[len(a.dataModel.Messages)-1].Role == "system" {
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		cmds = append(cmds, cmd)
		// Update viewport to show animated spinner
		a.updateViewportContent(true)
	}

	// Update retrieval spinner while a lookup is in flight
	if a.retrieveLoading {
		a.retrieveSpinner, cmd = a.retrieveSpinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Reserve space for title (1 line), separator (1 line), textarea (3 lines), and status bar (1 line)
		viewportHeight := a.height - 6
		a.viewport.Width = a.width
		a.viewport.Height = viewportHeight
		a.textarea.SetWidth(a.width)

		a.ready = true
		a.updateViewportContent(true)
		return a, nil

	case tea.KeyMsg:
		pressed := msg.String()

		// PRIORITY 0: Always-global shortcuts
		if a.keyIs(pressed, "quit") {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Quit key pressed")
			}
			a.dataModel.Quitting = true
			return a, tea.Quit
		}

		// PRIORITY 1: Modal toggle shortcuts (close current modal, open new one)
		switch {
		case a.keyIs(pressed, "help"):
			a.showHelp = !a.showHelp
			return a, nil

		case a.keyIs(pressed, "about"):
			wasOpen := a.showAbout
			a.closeAllModals()
			a.showAbout = !wasOpen
			return a, nil

		case a.keyIs(pressed, "clear_history"):
			if a.dataModel.Streaming {
				return a, nil
			}
			if len(a.dataModel.Messages) == 0 {
				return a, nil
			}
			a.closeAllModals()
			a.confirmClear = true
			return a, nil

		case a.keyIs(pressed, "search_messages"):
			wasOpen := a.showMessageSearch
			a.closeAllModals()
			a.showMessageSearch = !wasOpen
			if a.showMessageSearch {
				a.messageSearchInput.Focus()
				a.messageSearchInput.SetValue("")
				a.messageSearchResults = nil
				a.selectedSearchIdx = 0
				a.messageSearchScrollIdx = 0
				return a, textinput.Blink
			}
			return a, nil

		case a.keyIs(pressed, "retrieve"):
			wasOpen := a.showRetrieve
			a.closeAllModals()
			a.showRetrieve = !wasOpen
			if a.showRetrieve {
				a.retrieveInput.Focus()
				a.retrieveInput.SetValue("")
				a.retrieveResults = nil
				a.retrieveQuery = ""
				a.retrieveErr = ""
				return a, textinput.Blink
			}
			return a, nil

		case a.keyIs(pressed, "check_health"):
			return a, a.dataModel.CheckHealth()
		}

		// PRIORITY 2: Modal-specific key handling (order matches View rendering)
		if a.showAcknowledgeModal {
			if pressed == "enter" || pressed == "esc" {
				a.showAcknowledgeModal = false
			}
			return a, nil
		}

		if a.showHelp {
			if pressed == "esc" {
				a.showHelp = false
			}
			return a, nil
		}

		if a.confirmClear {
			switch pressed {
			case "y":
				a.confirmClear = false
				a.dataModel.Ctrl.ClearHistory()
				a.dataModel.Messages = nil
				a.suggestionIdx = 0
				a.textarea.Reset()
				a.updateViewportContent(true)
				if config.DebugLog != nil {
					config.DebugLog.Printf("[UI] Conversation cleared")
				}
			case "n", "esc":
				a.confirmClear = false
			}
			return a, nil
		}

		if a.showMessageSearch {
			return a.handleMessageSearchUpdate(msg)
		}

		if a.showRetrieve {
			return a.handleRetrieveUpdate(msg)
		}

		if a.showAbout {
			if pressed == "esc" || a.keyIs(pressed, "close_about") {
				a.showAbout = false
			}
			return a, nil
		}

		// Esc during the typewriter flushes the rest of the reply at once
		if pressed == "esc" && a.dataModel.Streaming && len(a.chunks) > 0 {
			return a.flushTypewriter()
		}

		// PRIORITY 3: Tab handling (chat input)
		if pressed == "tab" && !a.dataModel.Streaming {
			a.textarea.InsertString("   ")
			return a, nil
		}

		// Welcome screen suggestion navigation (only while input is empty)
		if a.onWelcomeScreen() && a.textarea.Value() == "" {
			switch {
			case a.keyIs(pressed, "welcome_down"), a.keyIs(pressed, "welcome_down_arrow"):
				if a.suggestionIdx < len(a.suggestions)-1 {
					a.suggestionIdx++
					a.updateViewportContent(false)
				}
				return a, nil
			case a.keyIs(pressed, "welcome_up"), a.keyIs(pressed, "welcome_up_arrow"):
				if a.suggestionIdx > 0 {
					a.suggestionIdx--
					a.updateViewportContent(false)
				}
				return a, nil
			}
		}

		// Handle Enter for sending messages - DON'T let textarea process it
		// (the configured newline binding passes through to the textarea)
		if msg.Type == tea.KeyEnter && !msg.Alt && a.dataModel.Streaming {
			return a.showNotice("A reply is still in progress")
		}

		if msg.Type == tea.KeyEnter && !msg.Alt && !a.dataModel.Streaming {
			text := a.textarea.Value()
			if text == "" && a.onWelcomeScreen() && len(a.suggestions) > 0 {
				text = a.suggestions[a.suggestionIdx]
			}
			if strings.TrimSpace(text) == "" {
				return a.showNotice("Nothing to send - type a message first")
			}
			if !a.dataModel.Healthy {
				a.acknowledge(
					"⚠  Agent Unavailable",
					"The agent backend is not reachable or not fully\nconfigured. Your message was not sent.",
					ModalTypeWarning,
				)
				return a, nil
			}
			return a.sendMessage(text)
		}

		switch {
		case a.keyIs(pressed, "clear_input"):
			if !a.dataModel.Streaming {
				a.textarea.Reset()
			}
			return a, nil

		case a.keyIs(pressed, "yank_last_response"):
			if last, ok := a.dataModel.LastAssistantMessage(); ok {
				clipboard.WriteAll(last.Content)
			}
			return a, nil

		case a.keyIs(pressed, "yank_conversation"):
			var allText strings.Builder
			for _, m := range a.dataModel.Messages {
				role := m.Role
				switch role {
				case "user":
					role = "You"
				case "assistant":
					role = "Assistant"
				}
				allText.WriteString(fmt.Sprintf("[%s] %s:\n%s\n\n",
					m.Timestamp.Format("15:04"),
					role,
					m.Content))
			}
			clipboard.WriteAll(allText.String())
			return a, nil

		case a.keyIs(pressed, "scroll_down"), a.keyIs(pressed, "scroll_down_arrow"):
			a.viewport.ScrollDown(1)
			return a, nil

		case a.keyIs(pressed, "scroll_up"), a.keyIs(pressed, "scroll_up_arrow"):
			a.viewport.ScrollUp(1)
			return a, nil

		case a.keyIs(pressed, "half_page_down"), a.keyIs(pressed, "half_page_down_arrow"):
			a.viewport.HalfPageDown()
			return a, nil

		case a.keyIs(pressed, "half_page_up"), a.keyIs(pressed, "half_page_up_arrow"):
			a.viewport.HalfPageUp()
			return a, nil

		case a.keyIs(pressed, "page_down"):
			a.viewport.PageDown()
			return a, nil

		case a.keyIs(pressed, "page_up"):
			a.viewport.PageUp()
			return a, nil

		case a.keyIs(pressed, "scroll_to_top"):
			a.viewport.GotoTop()
			return a, nil

		case a.keyIs(pressed, "scroll_to_bottom"):
			a.viewport.GotoBottom()
			return a, nil
		}

	case streamChunksCollectedMsg, displayChunkTickMsg, streamErrorMsg:
		return a.handleStreamingMessage(msg)

	case healthCheckedMsg:
		wasHealthy := a.dataModel.Healthy
		a.dataModel.Healthy = msg.Healthy
		if msg.AppName != "" {
			a.dataModel.AppName = msg.AppName
		}
		if wasHealthy != msg.Healthy && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Backend health changed: healthy=%v", msg.Healthy)
		}
		return a, appmodel.ScheduleHealthTick()

	case healthTickMsg:
		return a, a.dataModel.CheckHealth()

	case noticeExpiredMsg:
		if msg.Seq == a.noticeSeq {
			a.notice = ""
		}
		return a, nil

	case retrieveResultMsg:
		a.retrieveLoading = false
		if msg.Err != nil {
			a.retrieveErr = msg.Err.Error()
			a.retrieveResults = nil
			return a, nil
		}
		a.retrieveErr = ""
		a.retrieveResults = msg.Results
		return a, nil

	case flashTickMsg:
		if a.highlightFlashCount > 0 && a.highlightFlashCount < 6 {
			a.highlightFlashCount++
			a.updateViewportContent(false)
			return a, tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
				return flashTickMsg{}
			})
		}
		a.highlightedMessageIdx = -1
		a.highlightFlashCount = 0
		a.updateViewportContent(false)
		return a, nil

	case markdownRenderedMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("markdownRenderedMsg received for message %d", msg.MessageIndex)
		}

		if msg.MessageIndex >= 0 && msg.MessageIndex < len(a.dataModel.Messages) {
			a.dataModel.Messages[msg.MessageIndex].Rendered = msg.Rendered

			gotoBottom := a.highlightedMessageIdx < 0
			a.updateViewportContent(gotoBottom)
		}
		return a, nil
	}

	// Update textarea only if not streaming
	if !a.dataModel.Streaming {
		a.textarea, cmd = a.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// sendMessage appends the user message, shows the waiting spinner, and fires
// the request command
func (a AppView) sendMessage(text string) (tea.Model, tea.Cmd) {
	a.textarea.Reset()

	if config.DebugLog != nil {
		config.DebugLog.Printf("Enter pressed - sending message (%d chars)", len(text))
	}

	// Add user message
	a.dataModel.Messages = append(a.dataModel.Messages, Message{
		Role:      "user",
		Content:   text,
		Rendered:  text, // Start with plain text, will be rendered async
		Timestamp: time.Now(),
	})
	userMessageIndex := len(a.dataModel.Messages) - 1

	// Initialize and start spinner
	a.loadingSpinner = spinner.New()
	a.loadingSpinner.Spinner = spinner.Dot
	a.loadingSpinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("15")) // Bright white

	// Add loading message (will be updated with spinner in updateViewportContent)
	loadingMsg := "Waiting for response..."
	a.dataModel.Messages = append(a.dataModel.Messages, Message{
		Role:      "system",
		Content:   loadingMsg,
		Rendered:  loadingMsg,
		Timestamp: time.Now(),
	})

	a.dataModel.Streaming = true
	a.updateViewportContent(true)

	return a, tea.Batch(
		a.renderMarkdownAsync(userMessageIndex, text),
		a.dataModel.SendToAgent(text),
		a.loadingSpinner.Tick,
	)
}
