package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"atui/api"
	appmodel "atui/model"
	"atui/session"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Streaming UI state
	currentResp *strings.Builder // Pointer to avoid copy panic
	showHelp    bool

	// Typewriter effect fields
	chunks     []string // Chunks to display with typewriter effect
	chunkIndex int      // Current chunk being displayed

	// Loading spinner (bubbles/spinner)
	loadingSpinner spinner.Model

	// About modal
	showAbout bool

	// Clear-history confirmation modal
	confirmClear bool

	// Acknowledge modal (for warnings/errors requiring only acknowledgement)
	showAcknowledgeModal  bool
	acknowledgeModalTitle string
	acknowledgeModalMsg   string
	acknowledgeModalType  ModalType

	// Message search modal
	showMessageSearch      bool
	messageSearchInput     textinput.Model
	messageSearchResults   []session.MessageMatch
	selectedSearchIdx      int
	messageSearchScrollIdx int

	highlightedMessageIdx int
	highlightFlashCount   int

	// Knowledge retrieval modal
	showRetrieve    bool
	retrieveInput   textinput.Model
	retrieveLoading bool
	retrieveQuery   string
	retrieveResults []api.KnowledgeBaseResult
	retrieveErr     string
	retrieveSpinner spinner.Model

	// Welcome screen suggestion selection
	suggestions   []string
	suggestionIdx int

	// Transient status-bar notice
	notice    string
	noticeSeq int
}

func NewAppView(dataModel *appmodel.Model) AppView {
	kb := dataModel.Config.Keybindings

	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Custom KeyMap: Alt+Enter for newline, Enter alone does nothing (handled separately)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys(kb.PrimaryKey("enter")))

	// Set dynamic prompt: "> " for first line, "| " for subsequent lines
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	messageSearchInput := textinput.New()
	messageSearchInput.Prompt = "Search: "
	messageSearchInput.CharLimit = 100

	retrieveInput := textinput.New()
	retrieveInput.Prompt = "Query: "
	retrieveInput.CharLimit = 200

	suggestions := dataModel.Config.Suggestions
	if len(suggestions) == 0 {
		suggestions = DefaultSuggestions
	}

	return AppView{
		dataModel:             dataModel,
		textarea:              ta,
		viewport:              vp,
		currentResp:           &strings.Builder{},
		ready:                 false,
		showHelp:              false,
		showAbout:             false,
		messageSearchInput:    messageSearchInput,
		retrieveInput:         retrieveInput,
		highlightedMessageIdx: -1,
		suggestions:           suggestions,
		suggestionIdx:         0,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.dataModel.CheckHealth(),
		appmodel.ScheduleHealthTick(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading ATUI..."
	}

	// Modal rendering order (top to bottom layers):
	// 1. Acknowledge modal
	// 2. Help (can peek while in other modals)
	// 3. Clear-history confirmation
	// 4. Message search
	// 5. Knowledge retrieval
	// 6. About

	if a.showAcknowledgeModal {
		return RenderAcknowledgeModal(
			a.acknowledgeModalTitle,
			a.acknowledgeModalMsg,
			a.acknowledgeModalType,
			a.width,
			a.height,
		)
	}

	if a.showHelp {
		return a.renderHelpModal(a.width, a.height)
	}

	if a.confirmClear {
		return RenderConfirmationModal(ConfirmationState{
			Active:  true,
			Title:   "Clear Conversation",
			Message: "Delete all messages in this conversation?\nThis cannot be undone.",
		}, a.width, a.height)
	}

	if a.showMessageSearch {
		return renderMessageSearch(a, a.messageSearchInput, a.messageSearchResults, a.selectedSearchIdx, a.messageSearchScrollIdx, a.width, a.height)
	}

	if a.showRetrieve {
		return a.renderRetrieveModal()
	}

	if a.showAbout {
		return renderAboutModal(a, a.width, a.height, a.dataModel.Version, a.dataModel.License)
	}

	// Title bar - "ATUI - <backend name> - ● Connected"
	title := a.renderTitleBar()

	// Separator with bottom margin for header (empty line forces spacing)
	separator := ""

	// Viewport with messages
	viewportView := a.viewport.View()

	// Input area
	inputView := a.textarea.View()

	statusBar := a.renderStatusBar()

	// Combine all parts
	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		separator,
		viewportView,
		inputView,
		statusBar,
	)
}

func (a AppView) renderTitleBar() string {
	atuiText := AssistantStyle.Render("ATUI")

	backendName := a.dataModel.AppName
	if backendName == "" {
		backendName = "Agent"
	}
	nameText := TitleStyle.Render(fmt.Sprintf(" - %s", backendName))

	var healthText string
	if a.dataModel.Healthy {
		healthText = " - " + UserStyle.Render("● Connected")
	} else {
		healthText = " - " + lipgloss.NewStyle().Foreground(dangerColor).Bold(true).Render("○ Unavailable")
	}

	return atuiText + nameText + healthText
}

func (a *AppView) closeAllModals() {
	a.showHelp = false
	a.showAbout = false
	a.confirmClear = false
	a.showMessageSearch = false
	a.showRetrieve = false
	a.showAcknowledgeModal = false

	if a.messageSearchInput.Focused() {
		a.messageSearchInput.Blur()
	}
	if a.retrieveInput.Focused() {
		a.retrieveInput.Blur()
	}
}

func (a *AppView) acknowledge(title, msg string, modalType ModalType) {
	a.showAcknowledgeModal = true
	a.acknowledgeModalTitle = title
	a.acknowledgeModalMsg = msg
	a.acknowledgeModalType = modalType
}

// onWelcomeScreen reports whether the suggestion list is visible
func (a AppView) onWelcomeScreen() bool {
	return len(a.dataModel.Messages) == 0 && !a.dataModel.Streaming
}
