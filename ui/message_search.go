package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"atui/session"
)

func renderMessageSearch(a AppView, searchInput textinput.Model, results []session.MessageMatch, selectedIdx, scrollIdx, width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("🔍 Search Conversation")
	searchView := searchInput.View()

	resultsView := ""
	if len(results) == 0 {
		if searchInput.Value() == "" {
			resultsView = DimStyle.Render("Type to search messages in this conversation...")
		} else {
			resultsView = DimStyle.Render("No matches found")
		}
	} else {
		// Calculate fixed overhead precisely
		// Border(2) + Padding(2) + Title(1) + Blank(1) + SearchInput(1) + Blank(1) +
		// "Found X matches:"(1) + Blank(1) + Footer(1) + Blank(1) = 12 lines
		fixedOverhead := 12

		// Reserve space for scroll indicators if needed
		scrollIndicatorSpace := 4 // "↑ X more above" (2) + "↓ X more below" (2)

		availableLines := height - fixedOverhead - scrollIndicatorSpace
		if availableLines < 3 {
			availableLines = 3 // Minimum to show at least 1 result
		}

		// Use very conservative estimate for lines per result (accounts for worst-case wrapping)
		linesPerResult := 6
		maxVisibleResults := availableLines / linesPerResult
		if maxVisibleResults < 1 {
			maxVisibleResults = 1
		}

		startIdx := scrollIdx
		endIdx := scrollIdx + maxVisibleResults
		if endIdx > len(results) {
			endIdx = len(results)
		}

		resultsView = fmt.Sprintf("Found %d matches:\n\n", len(results))

		if startIdx > 0 {
			resultsView += DimStyle.Render(fmt.Sprintf("↑ %d more above\n\n", startIdx))
		}

		for i := startIdx; i < endIdx; i++ {
			match := results[i]

			roleStyle := UserStyle
			if match.Role == "assistant" {
				roleStyle = AssistantStyle
			}

			matchText := fmt.Sprintf("%s [%s]\n  %s",
				roleStyle.Render(match.Role),
				match.Timestamp.Format("Jan 2, 3:04 PM"),
				match.Preview,
			)

			if i == selectedIdx {
				matchText = SelectedStyle.Render("> " + matchText)
			} else {
				matchText = "  " + matchText
			}

			resultsView += matchText + "\n\n"
		}

		if endIdx < len(results) {
			resultsView += DimStyle.Render(fmt.Sprintf("↓ %d more below", len(results)-endIdx))
		}
	}

	footer := FormatFooter("Type", "to search", a.formatKeyDisplay("primary", "J/K"), "Navigate", "Enter", "Select", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchView,
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}

func (a AppView) handleMessageSearchUpdate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pressed := msg.String()

	switch {
	case pressed == "esc":
		a.showMessageSearch = false
		return a, nil
	case pressed == "up", a.keyIs(pressed, "search_up"), a.keyIs(pressed, "search_up_arrow"):
		if a.selectedSearchIdx > 0 {
			a.selectedSearchIdx--
		}
		return a, nil
	case pressed == "down", a.keyIs(pressed, "search_down"), a.keyIs(pressed, "search_down_arrow"):
		if a.selectedSearchIdx < len(a.messageSearchResults)-1 {
			a.selectedSearchIdx++
		}
		return a, nil
	case pressed == "enter":
		if a.selectedSearchIdx >= 0 && a.selectedSearchIdx < len(a.messageSearchResults) {
			match := a.messageSearchResults[a.selectedSearchIdx]
			messageIdx := a.displayIndexFor(match.MessageIndex)
			if messageIdx < 0 {
				a.showMessageSearch = false
				return a, nil
			}

			a.highlightedMessageIdx = messageIdx
			a.highlightFlashCount = 1
			a.showMessageSearch = false
			a.updateViewportContent(false)

			// Center the viewport on the match by counting the rendered lines
			// of everything above it
			var offsetContent strings.Builder
			for i := 0; i < messageIdx; i++ {
				msg := a.dataModel.Messages[i]
				timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))
				var roleStyle = DimStyle
				var roleName string
				switch msg.Role {
				case "user":
					roleStyle = UserStyle
					roleName = "You"
				case "assistant":
					roleStyle = AssistantStyle
					roleName = "Assistant"
				default:
					roleStyle = DimStyle
					roleName = "System"
				}
				role := roleStyle.Render(roleName)
				if msg.Role == "user" {
					offsetContent.WriteString(formatUserMessage("", timestamp, role, msg.Rendered))
				} else {
					offsetContent.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, msg.Rendered))
				}
			}
			actualOffset := strings.Count(offsetContent.String(), "\n")
			viewportHeight := a.viewport.Height
			centerOffset := actualOffset - (viewportHeight / 2)
			if centerOffset < 0 {
				centerOffset = 0
			}
			totalLines := a.viewport.TotalLineCount()
			if centerOffset > totalLines-viewportHeight {
				centerOffset = totalLines - viewportHeight
			}
			a.viewport.SetYOffset(centerOffset)

			return a, tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
				return flashTickMsg{}
			})
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.messageSearchInput, cmd = a.messageSearchInput.Update(msg)
	query := a.messageSearchInput.Value()
	if query != "" {
		a.messageSearchResults = a.dataModel.Search(query)
		a.selectedSearchIdx = 0
		a.messageSearchScrollIdx = 0
	} else {
		a.messageSearchResults = []session.MessageMatch{}
	}
	return a, cmd
}

// displayIndexFor maps a conversation history index to the display list,
// which may carry extra system lines between turns.
func (a AppView) displayIndexFor(historyIdx int) int {
	seen := 0
	for i, m := range a.dataModel.Messages {
		if m.Role == "system" {
			continue
		}
		if seen == historyIdx {
			return i
		}
		seen++
	}
	return -1
}
